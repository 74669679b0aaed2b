package ui

import (
	"fmt"
	"strings"

	"releasetracker/app/models"
	"releasetracker/app/release"
	"releasetracker/client"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

const (
	inputName = iota
	inputVersion
	inputDate
	inputRemarks
	inputCount
)

// releaseForm edits the release fields and checklist. Focus runs over the
// text inputs, then the checklist items, then the submit button.
type releaseForm struct {
	inputs    []textinput.Model
	checklist models.Checklist
	focus     int
}

func newReleaseForm(r *models.Release) releaseForm {
	f := releaseForm{
		inputs:    make([]textinput.Model, inputCount),
		checklist: models.DefaultChecklist(),
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Cursor.SetMode(cursor.CursorStatic)
		in.Width = 40
		switch i {
		case inputName:
			in.Placeholder = "Release name"
			in.CharLimit = 255
		case inputVersion:
			in.Placeholder = "1.0.0"
			in.CharLimit = 50
		case inputDate:
			in.Placeholder = models.DateLayout
			in.CharLimit = 10
		case inputRemarks:
			in.Placeholder = "Optional remarks"
		}
		f.inputs[i] = in
	}

	if r != nil {
		f.inputs[inputName].SetValue(r.ReleaseName)
		f.inputs[inputVersion].SetValue(r.Version)
		f.inputs[inputDate].SetValue(r.ReleaseDate.String())
		if r.Remarks != nil {
			f.inputs[inputRemarks].SetValue(*r.Remarks)
		}
		f.checklist = r.Tasks()
	}
	f.inputs[inputName].Focus()
	return f
}

func (f releaseForm) submitIndex() int {
	return inputCount + len(models.ChecklistKeys)
}

func (f *releaseForm) setFocus(i int) {
	last := f.submitIndex()
	switch {
	case i < 0:
		i = last
	case i > last:
		i = 0
	}
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// checklistKey is the key under focus, or "" when focus is elsewhere.
func (f releaseForm) checklistKey() string {
	idx := f.focus - inputCount
	if idx < 0 || idx >= len(models.ChecklistKeys) {
		return ""
	}
	return models.ChecklistKeys[idx]
}

// Update reports true once the user asks to submit.
func (f releaseForm) Update(msg tea.KeyMsg) (releaseForm, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+s":
		return f, nil, true
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil, false
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil, false
	case "enter":
		if f.focus == f.submitIndex() {
			return f, nil, true
		}
		if key := f.checklistKey(); key != "" {
			f.checklist.Toggle(key)
			return f, nil, false
		}
		f.setFocus(f.focus + 1)
		return f, nil, false
	case " ", "space", "x":
		if key := f.checklistKey(); key != "" {
			f.checklist.Toggle(key)
			return f, nil, false
		}
	}

	if f.focus < inputCount {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return f, cmd, false
	}
	return f, nil, false
}

func (f releaseForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f releaseForm) validate() error {
	switch {
	case f.value(inputName) == "":
		return errors.New("Release name is required")
	case f.value(inputVersion) == "":
		return errors.New("Version is required")
	case f.value(inputDate) == "":
		return errors.New("Release date is required")
	}
	if _, err := models.ParseReleaseDate(f.value(inputDate)); err != nil {
		return errors.Errorf("Release date must look like %s", models.DateLayout)
	}
	return nil
}

func (f releaseForm) createRequest() release.CreateReleaseRequest {
	checklist := f.checklist
	progress := client.ComputeProgress(checklist)
	req := release.CreateReleaseRequest{
		ReleaseName:       f.value(inputName),
		Version:           f.value(inputVersion),
		ReleaseDate:       f.value(inputDate),
		Checklist:         &checklist,
		ChecklistProgress: &progress,
	}
	if remarks := f.value(inputRemarks); remarks != "" {
		req.Remarks = &remarks
	}
	return req
}

// patch sends every field, with progress recomputed from the checklist.
func (f releaseForm) patch() release.ReleasePatch {
	date, _ := models.ParseReleaseDate(f.value(inputDate))
	p := release.ReleasePatch{
		ReleaseName:       release.Some(f.value(inputName)),
		Version:           release.Some(f.value(inputVersion)),
		ReleaseDate:       release.Some(date),
		Remarks:           release.Null[string](),
		Checklist:         release.Some(f.checklist),
		ChecklistProgress: release.Some(client.ComputeProgress(f.checklist)),
	}
	if remarks := f.value(inputRemarks); remarks != "" {
		p.Remarks = release.Some(remarks)
	}
	return p
}

func (f releaseForm) View(submitLabel string) string {
	var b strings.Builder

	labels := []string{"Name", "Version", "Date", "Remarks"}
	for i, in := range f.inputs {
		label := labelStyle.Render(labels[i])
		if f.focus == i {
			label = labelStyle.Foreground(focusedStyle.GetForeground()).Render(labels[i])
		}
		b.WriteString(label + in.View() + "\n")
	}

	progress := client.ComputeProgress(f.checklist)
	b.WriteString(fmt.Sprintf("\nChecklist %d/%d (%d%%)\n", progress.Completed, progress.Total, progress.Percentage))
	for i, item := range f.checklist.Items() {
		mark := "[ ]"
		if item.Done {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, item.Label)
		if f.focus == inputCount+i {
			line = focusedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	button := "[ " + submitLabel + " ]"
	if f.focus == f.submitIndex() {
		button = focusedStyle.Render(button)
	}
	b.WriteString("\n" + button + "\n")
	return b.String()
}
