package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"releasetracker/app/models"
	"releasetracker/app/release"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"
)

// MockReleaseServer is an in-memory stand-in for the /api/releases resource.
// Setting FailWith makes every request answer with that status and body.
type MockReleaseServer struct {
	*httptest.Server

	mu       sync.Mutex
	releases map[uint]models.Release
	nextID   uint
	requests int

	FailWith     int
	FailBody     string
	FailMimeType string
}

func SetUpMockReleaseServer(seed ...models.Release) *MockReleaseServer {
	m := &MockReleaseServer{
		releases: map[uint]models.Release{},
		nextID:   1,
	}
	for _, r := range seed {
		m.put(r)
	}

	router := mux.NewRouter()
	router.Use(m.countAndFail)
	router.HandleFunc("/api/releases", m.list).Methods(http.MethodGet)
	router.HandleFunc("/api/releases", m.create).Methods(http.MethodPost)
	router.HandleFunc("/api/releases/{id}", m.get).Methods(http.MethodGet)
	router.HandleFunc("/api/releases/{id}", m.update).Methods(http.MethodPut)
	router.HandleFunc("/api/releases/{id}", m.delete).Methods(http.MethodDelete)

	m.Server = httptest.NewServer(router)
	return m
}

// Requests is the number of requests the server has seen.
func (m *MockReleaseServer) Requests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests
}

func (m *MockReleaseServer) put(r models.Release) models.Release {
	if r.ID == 0 {
		r.ID = m.nextID
	}
	if r.ID >= m.nextID {
		m.nextID = r.ID + 1
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.releases[r.ID] = r
	return r
}

func (m *MockReleaseServer) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		m.mu.Lock()
		m.requests++
		status, body, mime := m.FailWith, m.FailBody, m.FailMimeType
		m.mu.Unlock()

		if status != 0 {
			if mime == "" {
				mime = "application/json"
			}
			res.Header().Set("Content-Type", mime)
			res.WriteHeader(status)
			res.Write([]byte(body))
			return
		}
		next.ServeHTTP(res, req)
	})
}

func writeJSON(res http.ResponseWriter, status int, body interface{}) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	json.NewEncoder(res).Encode(body)
}

func (m *MockReleaseServer) lookup(res http.ResponseWriter, req *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err == nil {
		if _, ok := m.releases[uint(id)]; ok {
			return uint(id), true
		}
	}
	writeJSON(res, http.StatusNotFound, release.Envelope{Error: "Release not found"})
	return 0, false
}

func (m *MockReleaseServer) list(res http.ResponseWriter, req *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	releases := []models.Release{}
	for id := uint(1); id < m.nextID; id++ {
		if r, ok := m.releases[id]; ok {
			releases = append(releases, r)
		}
	}
	count := len(releases)
	writeJSON(res, http.StatusOK, release.Envelope{Success: true, Data: releases, Count: &count})
}

func (m *MockReleaseServer) get(res http.ResponseWriter, req *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.lookup(res, req); ok {
		writeJSON(res, http.StatusOK, release.Envelope{Success: true, Data: m.releases[id]})
	}
}

func (m *MockReleaseServer) create(res http.ResponseWriter, req *http.Request) {
	var body release.CreateReleaseRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.ReleaseName == "" || body.Version == "" {
		writeJSON(res, http.StatusInternalServerError, release.Envelope{Error: "Failed to create release"})
		return
	}
	date, err := models.ParseReleaseDate(body.ReleaseDate)
	if err != nil {
		writeJSON(res, http.StatusInternalServerError, release.Envelope{Error: "Failed to create release"})
		return
	}
	checklist, progress := models.DefaultChecklist(), models.DefaultProgress()
	if body.Checklist != nil {
		checklist = *body.Checklist
	}
	if body.ChecklistProgress != nil {
		progress = *body.ChecklistProgress
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	created := m.put(models.Release{
		ReleaseName:       body.ReleaseName,
		Version:           body.Version,
		ReleaseDate:       date,
		Remarks:           body.Remarks,
		Checklist:         datatypes.NewJSONType(checklist),
		ChecklistProgress: datatypes.NewJSONType(progress),
	})
	writeJSON(res, http.StatusCreated, release.Envelope{
		Success: true,
		Data:    created,
		Message: "Release created successfully",
	})
}

func (m *MockReleaseServer) update(res http.ResponseWriter, req *http.Request) {
	var patch release.ReleasePatch
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		writeJSON(res, http.StatusInternalServerError, release.Envelope{Error: "Failed to update release"})
		return
	}
	if patch.IsEmpty() {
		writeJSON(res, http.StatusBadRequest, release.Envelope{Error: "No fields to update"})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.lookup(res, req)
	if !ok {
		return
	}
	r := m.releases[id]
	if patch.ReleaseName.Set {
		r.ReleaseName = patch.ReleaseName.Value
	}
	if patch.Version.Set {
		r.Version = patch.Version.Value
	}
	if patch.ReleaseDate.Set {
		r.ReleaseDate = patch.ReleaseDate.Value
	}
	if patch.Remarks.Set {
		r.Remarks = nil
		if !patch.Remarks.Null {
			remarks := patch.Remarks.Value
			r.Remarks = &remarks
		}
	}
	if patch.Checklist.Set {
		r.Checklist = datatypes.NewJSONType(patch.Checklist.Value)
	}
	if patch.ChecklistProgress.Set {
		r.ChecklistProgress = datatypes.NewJSONType(patch.ChecklistProgress.Value)
	}
	writeJSON(res, http.StatusOK, release.Envelope{
		Success: true,
		Data:    m.put(r),
		Message: "Release updated successfully",
	})
}

func (m *MockReleaseServer) delete(res http.ResponseWriter, req *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.lookup(res, req); ok {
		delete(m.releases, id)
		writeJSON(res, http.StatusOK, release.Envelope{Success: true, Message: "Release deleted successfully"})
	}
}
