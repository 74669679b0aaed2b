package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type createView struct {
	form         releaseForm
	submitting   bool
	errorMessage string
}

func newCreateView() createView {
	return createView{form: newReleaseForm(nil)}
}

func (a *App) updateCreate(msg tea.Msg) tea.Cmd {
	v := &a.create

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return a.showList()
		}
		if v.submitting {
			return nil
		}
		var cmd tea.Cmd
		var submit bool
		v.form, cmd, submit = v.form.Update(msg)
		if !submit {
			return cmd
		}
		if err := v.form.validate(); err != nil {
			v.errorMessage = err.Error()
			return nil
		}
		v.submitting = true
		v.errorMessage = ""
		return createReleaseCmd(a.api, v.form.createRequest())

	case releaseCreatedMsg:
		v.submitting = false
		if msg.err != nil {
			v.errorMessage = fmt.Sprintf("Failed to create release: %s", errorText(msg.err))
			return nil
		}
		a.screen = screenDetail
		a.detail = newDetailView(msg.release.ID)
		a.detail.ready(msg.release)
		return nil
	}
	return nil
}

func (v createView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New release") + "\n\n")
	b.WriteString(v.form.View("Create"))
	if v.submitting {
		b.WriteString(subtitleStyle.Render("Creating release...") + "\n")
	}
	if v.errorMessage != "" {
		b.WriteString(errorStyle.Render("⚠ "+v.errorMessage) + "\n")
	}
	b.WriteString(helpStyle.Render("tab/shift+tab: move • space: toggle • ctrl+s: create • esc: back"))
	return b.String()
}
