package release

import (
	"fmt"
	"net/http"
	"strconv"

	"releasetracker/app/models"
	"releasetracker/log"
	"releasetracker/notify"
	"releasetracker/utilities/config"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	msgNotFound = "Release not found"
	msgNoFields = "No fields to update"
)

type ReleaseService struct {
	Store    *Store
	Config   *config.Config
	Notifier notify.Notifier
}

func (m ReleaseService) recompute() bool {
	return m.Config != nil && m.Config.RecomputeProgress
}

func (m ReleaseService) notifyIfCompleted(before *models.Release, after models.Release) {
	if m.Notifier == nil || after.Status() != models.StatusDone {
		return
	}
	if before != nil && before.Status() == models.StatusDone {
		return
	}
	m.Notifier.ReleaseCompleted(after)
}

// GetReleases handles GET /api/releases
func (m ReleaseService) GetReleases(c *gin.Context) {
	releases, err := m.Store.SelectAll(c.Request.Context())
	if err != nil {
		log.LogAppErr("Error fetching releases", err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to fetch releases"})
		return
	}
	count := len(releases)
	c.JSON(http.StatusOK, Envelope{Success: true, Data: releases, Count: &count})
}

// GetRelease handles GET /api/releases/:id
func (m ReleaseService) GetRelease(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	release, err := m.Store.SelectByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, Envelope{Error: msgNotFound})
			return
		}
		log.LogAppErr(fmt.Sprintf("Error fetching release %d", id), err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to fetch release"})
		return
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Data: release})
}

// CreateRelease handles POST /api/releases. Every failure, including a
// malformed body, is reported as 500.
func (m ReleaseService) CreateRelease(c *gin.Context) {
	var req CreateReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.LogAppErr("Error creating release", errors.Wrap(err, "decoding request body"))
		c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to create release"})
		return
	}
	if m.recompute() {
		checklist := models.DefaultChecklist()
		if req.Checklist != nil {
			checklist = *req.Checklist
		}
		progress := models.ComputeProgress(checklist)
		req.ChecklistProgress = &progress
	}
	if req.Remarks != nil && *req.Remarks == "" {
		req.Remarks = nil
	}

	release, err := m.Store.Insert(c.Request.Context(), req)
	if err != nil {
		log.LogAppErr("Error creating release", err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to create release"})
		return
	}
	m.notifyIfCompleted(nil, *release)
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Data:    release,
		Message: "Release created successfully",
	})
}

// UpdateRelease handles PUT /api/releases/:id
func (m ReleaseService) UpdateRelease(c *gin.Context) {
	var patch ReleasePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		log.LogAppErr("Error updating release", errors.Wrap(err, "decoding request body"))
		c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to update release"})
		return
	}
	if patch.IsEmpty() {
		c.JSON(http.StatusBadRequest, Envelope{Error: msgNoFields})
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if m.recompute() && patch.Checklist.Set && !patch.Checklist.Null {
		patch.ChecklistProgress = Some(models.ComputeProgress(patch.Checklist.Value))
	}

	before, release, err := m.Store.update(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, Envelope{Error: msgNotFound})
		case errors.Is(err, ErrNoFields):
			c.JSON(http.StatusBadRequest, Envelope{Error: msgNoFields})
		default:
			log.LogAppErr(fmt.Sprintf("Error updating release %d", id), err)
			c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to update release"})
		}
		return
	}
	m.notifyIfCompleted(before, *release)
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    release,
		Message: "Release updated successfully",
	})
}

// DeleteRelease handles DELETE /api/releases/:id
func (m ReleaseService) DeleteRelease(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := m.Store.DeleteByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, Envelope{Error: msgNotFound})
			return
		}
		log.LogAppErr(fmt.Sprintf("Error deleting release %d", id), err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: "Failed to delete release"})
		return
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Message: "Release deleted successfully"})
}

// parseID writes a 404 for ids that cannot name a row.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, Envelope{Error: msgNotFound})
		return 0, false
	}
	return uint(id), true
}
