package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// screenState represents the current screen being displayed
type screenState int

const (
	screenList screenState = iota
	screenCreate
	screenDetail
)

// App is the root Bubble Tea model. It owns one view per screen and routes
// messages to the active one.
type App struct {
	api    ReleaseAPI
	screen screenState

	list   listView
	create createView
	detail detailView

	width  int
	height int
}

func NewApp(api ReleaseAPI) *App {
	return &App{
		api:    api,
		screen: screenList,
		list:   newListView(),
	}
}

// Init loads the release list
func (a *App) Init() tea.Cmd {
	a.list.loading = true
	return loadReleasesCmd(a.api)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		a.width = msg.Width
		a.height = msg.Height
		a.list.setSize(msg.Width, msg.Height)
		return a, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.screen {
	case screenCreate:
		return a, a.updateCreate(msg)
	case screenDetail:
		return a, a.updateDetail(msg)
	default:
		return a, a.updateList(msg)
	}
}

func (a *App) View() string {
	switch a.screen {
	case screenCreate:
		return docStyle.Render(a.create.View())
	case screenDetail:
		return docStyle.Render(a.detail.View())
	default:
		return docStyle.Render(a.list.View())
	}
}

func (a *App) showList() tea.Cmd {
	a.screen = screenList
	a.list.loading = true
	a.list.confirmDelete = nil
	return loadReleasesCmd(a.api)
}

func (a *App) showCreate() tea.Cmd {
	a.screen = screenCreate
	a.create = newCreateView()
	return nil
}

func (a *App) showDetail(id uint) tea.Cmd {
	a.screen = screenDetail
	a.detail = newDetailView(id)
	return loadReleaseCmd(a.api, id)
}
