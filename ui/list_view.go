package ui

import (
	"fmt"
	"strings"

	"releasetracker/app/models"
	"releasetracker/client"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// releaseItem wraps a Release and implements the list.Item interface
type releaseItem struct {
	release models.Release
}

// FilterValue implements list.Item
func (i releaseItem) FilterValue() string {
	return i.release.ReleaseName
}

// Title implements list.DefaultItem
func (i releaseItem) Title() string {
	return fmt.Sprintf("%s v%s", i.release.ReleaseName, i.release.Version)
}

// Description implements list.DefaultItem
func (i releaseItem) Description() string {
	p := i.release.Progress()
	return fmt.Sprintf("%s • %s • %d/%d (%d%%)",
		i.release.ReleaseDate, client.StatusOf(i.release), p.Completed, p.Total, p.Percentage)
}

type listView struct {
	list          list.Model
	loading       bool
	errorMessage  string
	statusMessage string
	confirmDelete *models.Release
}

func newListView() listView {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Releases"
	l.SetShowStatusBar(false)
	return listView{list: l}
}

func (v *listView) setSize(width, height int) {
	h := height - 8
	if h < 10 {
		h = 10
	}
	v.list.SetSize(width-4, h)
}

func (v listView) selected() (models.Release, bool) {
	item, ok := v.list.SelectedItem().(releaseItem)
	if !ok {
		return models.Release{}, false
	}
	return item.release, true
}

func (a *App) updateList(msg tea.Msg) tea.Cmd {
	v := &a.list

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Any key other than y cancels a pending delete
		if v.confirmDelete != nil {
			target := *v.confirmDelete
			v.confirmDelete = nil
			if msg.String() == "y" {
				v.statusMessage = fmt.Sprintf("Deleting %s...", target.ReleaseName)
				return deleteReleaseCmd(a.api, target.ID, screenList)
			}
			v.statusMessage = "Delete cancelled"
			return nil
		}

		// If list is filtering, let it handle all keys
		if v.list.FilterState() == list.Filtering {
			var cmd tea.Cmd
			v.list, cmd = v.list.Update(msg)
			return cmd
		}

		switch msg.String() {
		case "q":
			return tea.Quit
		case "r":
			v.loading = true
			v.errorMessage = ""
			return loadReleasesCmd(a.api)
		case "n":
			return a.showCreate()
		case "enter":
			if r, ok := v.selected(); ok {
				return a.showDetail(r.ID)
			}
			return nil
		case "d":
			if r, ok := v.selected(); ok {
				v.confirmDelete = &r
				v.errorMessage = ""
				v.statusMessage = ""
			}
			return nil
		}

	case releasesLoadedMsg:
		v.loading = false
		if msg.err != nil {
			v.errorMessage = fmt.Sprintf("Failed to load releases: %s", errorText(msg.err))
			return nil
		}
		v.errorMessage = ""
		items := make([]list.Item, 0, len(msg.releases))
		for _, r := range msg.releases {
			items = append(items, releaseItem{release: r})
		}
		return v.list.SetItems(items)

	case releaseDeletedMsg:
		if msg.from != screenList {
			return nil
		}
		if msg.err != nil {
			v.errorMessage = fmt.Sprintf("Delete failed: %s", errorText(msg.err))
			v.statusMessage = ""
			return nil
		}
		v.statusMessage = "Release deleted"
		v.loading = true
		return loadReleasesCmd(a.api)

	default:
		return nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

func (v listView) View() string {
	var b strings.Builder

	switch {
	case v.loading && len(v.list.Items()) == 0:
		b.WriteString(titleStyle.Render("Releases") + "\n\n" + subtitleStyle.Render("Loading releases..."))
	case len(v.list.Items()) == 0:
		b.WriteString(titleStyle.Render("Releases") + "\n\n" + subtitleStyle.Render("No releases yet. Press n to create one."))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n")

	if v.confirmDelete != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Delete %s v%s? (y/N)", v.confirmDelete.ReleaseName, v.confirmDelete.Version)) + "\n")
	}
	if v.errorMessage != "" {
		b.WriteString(errorStyle.Render("⚠ "+v.errorMessage) + "\n")
	}
	if v.statusMessage != "" {
		b.WriteString(subtitleStyle.Render(v.statusMessage) + "\n")
	}
	b.WriteString(helpStyle.Render("enter: open • n: new • d: delete • r: reload • q: quit"))
	return b.String()
}
