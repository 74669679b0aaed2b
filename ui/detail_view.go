package ui

import (
	"fmt"
	"strings"

	"releasetracker/app/models"
	"releasetracker/client"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type detailPhase int

const (
	detailLoading detailPhase = iota
	detailError
	detailReady
)

type detailMode int

const (
	modeViewing detailMode = iota
	modeEditing
	modeConfirmDelete
)

// detailView shows one release. Once loaded it moves between viewing,
// editing and confirming a delete. Fetch, save and delete each keep their
// own error.
type detailView struct {
	id      uint
	phase   detailPhase
	mode    detailMode
	release *models.Release

	fetchErr string

	form    releaseForm
	saving  bool
	saveErr string

	deleting  bool
	deleteErr string

	bar progress.Model
}

func newDetailView(id uint) detailView {
	return detailView{
		id:    id,
		phase: detailLoading,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (v *detailView) ready(r *models.Release) {
	v.phase = detailReady
	v.mode = modeViewing
	v.release = r
	v.fetchErr = ""
}

func (a *App) updateDetail(msg tea.Msg) tea.Cmd {
	v := &a.detail

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch v.phase {
		case detailLoading:
			if msg.String() == "esc" {
				return a.showList()
			}
			return nil
		case detailError:
			switch msg.String() {
			case "r":
				v.phase = detailLoading
				return loadReleaseCmd(a.api, v.id)
			case "esc", "q":
				return a.showList()
			}
			return nil
		}
		return a.updateDetailKeys(msg)

	case releaseLoadedMsg:
		if msg.id != v.id {
			return nil
		}
		if msg.err != nil {
			v.phase = detailError
			v.fetchErr = errorText(msg.err)
			return nil
		}
		v.ready(msg.release)
		return nil

	case releaseSavedMsg:
		if msg.id != v.id {
			return nil
		}
		v.saving = false
		if msg.err != nil {
			v.saveErr = errorText(msg.err)
			return nil
		}
		v.saveErr = ""
		v.release = msg.release
		v.mode = modeViewing
		return nil

	case releaseDeletedMsg:
		if msg.from != screenDetail || msg.id != v.id {
			return nil
		}
		v.deleting = false
		if msg.err != nil {
			v.deleteErr = errorText(msg.err)
			v.mode = modeViewing
			return nil
		}
		cmd := a.showList()
		a.list.statusMessage = "Release deleted"
		return cmd
	}
	return nil
}

func (a *App) updateDetailKeys(msg tea.KeyMsg) tea.Cmd {
	v := &a.detail

	switch v.mode {
	case modeEditing:
		if msg.String() == "esc" {
			v.mode = modeViewing
			v.saveErr = ""
			return nil
		}
		if v.saving {
			return nil
		}
		var cmd tea.Cmd
		var submit bool
		v.form, cmd, submit = v.form.Update(msg)
		if !submit {
			return cmd
		}
		if err := v.form.validate(); err != nil {
			v.saveErr = err.Error()
			return nil
		}
		v.saving = true
		v.saveErr = ""
		return saveReleaseCmd(a.api, v.id, v.form.patch())

	case modeConfirmDelete:
		if v.deleting {
			return nil
		}
		if msg.String() == "y" {
			v.deleting = true
			v.deleteErr = ""
			return deleteReleaseCmd(a.api, v.id, screenDetail)
		}
		v.mode = modeViewing
		return nil

	default:
		switch msg.String() {
		case "e":
			v.mode = modeEditing
			v.form = newReleaseForm(v.release)
			v.saveErr = ""
		case "d":
			v.mode = modeConfirmDelete
			v.deleteErr = ""
		case "r":
			v.phase = detailLoading
			return loadReleaseCmd(a.api, v.id)
		case "esc", "q":
			return a.showList()
		}
		return nil
	}
}

func (v detailView) View() string {
	var b strings.Builder

	switch v.phase {
	case detailLoading:
		b.WriteString(subtitleStyle.Render("Loading release...") + "\n")
		b.WriteString(helpStyle.Render("esc: back"))
		return b.String()
	case detailError:
		b.WriteString(errorStyle.Render("⚠ Failed to load release: "+v.fetchErr) + "\n\n")
		b.WriteString(helpStyle.Render("r: retry • esc: back"))
		return b.String()
	}

	r := v.release
	if v.mode == modeEditing {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Editing %s", r.ReleaseName)) + "\n\n")
		b.WriteString(v.form.View("Save"))
		if v.saving {
			b.WriteString(subtitleStyle.Render("Saving...") + "\n")
		}
		if v.saveErr != "" {
			b.WriteString(errorStyle.Render("⚠ "+v.saveErr) + "\n")
		}
		b.WriteString(helpStyle.Render("tab/shift+tab: move • space: toggle • ctrl+s: save • esc: cancel"))
		return b.String()
	}

	p := r.Progress()
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s v%s", r.ReleaseName, r.Version)) + "  " + statusBadge(client.StatusOf(*r)) + "\n")
	b.WriteString(subtitleStyle.Render("Release date "+r.ReleaseDate.String()) + "\n\n")
	b.WriteString(v.bar.ViewAs(float64(p.Percentage)/100) + fmt.Sprintf("  %d/%d\n\n", p.Completed, p.Total))
	for _, item := range r.Tasks().Items() {
		mark := "[ ]"
		if item.Done {
			mark = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, item.Label))
	}
	if r.Remarks != nil {
		b.WriteString("\n" + labelStyle.Render("Remarks") + *r.Remarks + "\n")
	}
	b.WriteString("\n")

	if v.mode == modeConfirmDelete {
		if v.deleting {
			b.WriteString(subtitleStyle.Render("Deleting...") + "\n")
		} else {
			b.WriteString(errorStyle.Render("Delete this release? (y/N)") + "\n")
		}
	}
	if v.deleteErr != "" {
		b.WriteString(errorStyle.Render("⚠ Delete failed: "+v.deleteErr) + "\n")
	}
	b.WriteString(helpStyle.Render("e: edit • d: delete • r: reload • esc: back"))
	return b.String()
}
