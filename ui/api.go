package ui

import (
	"context"
	"time"

	"releasetracker/app/models"
	"releasetracker/app/release"
	"releasetracker/client"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
)

// ReleaseAPI is the subset of client.ReleaseClient the views need.
type ReleaseAPI interface {
	GetAllReleases(ctx context.Context) ([]models.Release, error)
	GetReleaseByID(ctx context.Context, id uint) (*models.Release, error)
	CreateRelease(ctx context.Context, req release.CreateReleaseRequest) (*models.Release, error)
	UpdateRelease(ctx context.Context, id uint, patch release.ReleasePatch) (*models.Release, error)
	DeleteRelease(ctx context.Context, id uint) error
}

var _ ReleaseAPI = (*client.ReleaseClient)(nil)

const requestTimeout = 10 * time.Second

// releasesLoadedMsg is sent when the list fetch completes
type releasesLoadedMsg struct {
	releases []models.Release
	err      error
}

// releaseLoadedMsg is sent when a single release fetch completes
type releaseLoadedMsg struct {
	id      uint
	release *models.Release
	err     error
}

type releaseCreatedMsg struct {
	release *models.Release
	err     error
}

type releaseSavedMsg struct {
	id      uint
	release *models.Release
	err     error
}

// releaseDeletedMsg carries where the delete was started from, so only that
// screen reacts to it.
type releaseDeletedMsg struct {
	id   uint
	from screenState
	err  error
}

func loadReleasesCmd(api ReleaseAPI) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		releases, err := api.GetAllReleases(ctx)
		return releasesLoadedMsg{releases: releases, err: err}
	}
}

func loadReleaseCmd(api ReleaseAPI, id uint) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r, err := api.GetReleaseByID(ctx, id)
		return releaseLoadedMsg{id: id, release: r, err: err}
	}
}

func createReleaseCmd(api ReleaseAPI, req release.CreateReleaseRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r, err := api.CreateRelease(ctx, req)
		return releaseCreatedMsg{release: r, err: err}
	}
}

func saveReleaseCmd(api ReleaseAPI, id uint, patch release.ReleasePatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		r, err := api.UpdateRelease(ctx, id, patch)
		return releaseSavedMsg{id: id, release: r, err: err}
	}
}

func deleteReleaseCmd(api ReleaseAPI, id uint, from screenState) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return releaseDeletedMsg{id: id, from: from, err: api.DeleteRelease(ctx, id)}
	}
}

// errorText prefers the server supplied message.
func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
