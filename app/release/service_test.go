package release_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"releasetracker/app/models"
	"releasetracker/notify"
	"releasetracker/testutils"
	"releasetracker/utilities/config"

	"github.com/stretchr/testify/suite"
	"gorm.io/datatypes"
)

type recordingNotifier struct {
	mu   sync.Mutex
	seen []models.Release
}

func (n *recordingNotifier) ReleaseCompleted(r models.Release) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, r)
}

type ReleasesTestSuite struct {
	testutils.TestSuite
}

func seedRelease(name, version string, date models.ReleaseDate, done ...string) models.Release {
	checklist := models.DefaultChecklist()
	for _, key := range done {
		checklist.Set(key, true)
	}
	return models.Release{
		ReleaseName:       name,
		Version:           version,
		ReleaseDate:       date,
		Checklist:         datatypes.NewJSONType(checklist),
		ChecklistProgress: datatypes.NewJSONType(models.ComputeProgress(checklist)),
	}
}

func TestRunReleasesTestSuite(t *testing.T) {
	suite.Run(t, &ReleasesTestSuite{
		TestSuite: testutils.TestSuite{
			Data: &testutils.DataSeed{
				Releases: []models.Release{
					seedRelease("Winter", "1.0.0", models.NewReleaseDate(2026, time.January, 15), "prsMerged"),
					seedRelease("Summer", "1.1.0", models.NewReleaseDate(2026, time.July, 1)),
				},
			},
		},
	})
}

func (suite *ReleasesTestSuite) path(id uint) string {
	return "/api/releases/" + strconv.FormatUint(uint64(id), 10)
}

func (suite *ReleasesTestSuite) TestReleaseService_GetReleases() {
	suite.Run("lists newest release date first", func() {
		resp := suite.SendRequest(http.MethodGet, "/api/releases", nil, nil)
		suite.Equal(http.StatusOK, resp.Code)

		var releases []models.Release
		env := suite.DecodeEnvelope(resp, &releases)
		suite.True(env.Success)
		suite.Require().NotNil(env.Count)
		suite.Equal(2, *env.Count)
		suite.Require().Len(releases, 2)
		suite.Equal("Summer", releases[0].ReleaseName)
		suite.Equal("Winter", releases[1].ReleaseName)
		suite.Equal(models.StatusOngoing, releases[1].Status())
	})
}

func (suite *ReleasesTestSuite) TestReleaseService_GetRelease() {
	tests := []struct {
		name   string
		path   func() string
		status int
		errMsg string
	}{
		{
			name:   "existing",
			path:   func() string { return suite.path(suite.Seeded[0].ID) },
			status: http.StatusOK,
		},
		{
			name:   "unknown id",
			path:   func() string { return suite.path(suite.Seeded[1].ID + 100) },
			status: http.StatusNotFound,
			errMsg: "Release not found",
		},
		{
			name:   "non numeric id",
			path:   func() string { return "/api/releases/abc" },
			status: http.StatusNotFound,
			errMsg: "Release not found",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			resp := suite.SendRequest(http.MethodGet, tt.path(), nil, nil)
			suite.Equal(tt.status, resp.Code)

			if tt.errMsg != "" {
				env := suite.DecodeEnvelope(resp, nil)
				suite.False(env.Success)
				suite.Equal(tt.errMsg, env.Error)
				return
			}
			var got models.Release
			env := suite.DecodeEnvelope(resp, &got)
			suite.True(env.Success)
			suite.Equal("Winter", got.ReleaseName)
			suite.Equal("2026-01-15", got.ReleaseDate.String())
			suite.True(got.Tasks().PrsMerged)
			suite.Nil(got.Remarks)
		})
	}
}

func (suite *ReleasesTestSuite) TestReleaseService_CreateRelease() {
	suite.Run("defaults checklist and progress", func() {
		resp := suite.SendRequest(http.MethodPost, "/api/releases", map[string]interface{}{
			"releaseName": "Autumn",
			"version":     "2.0.0",
			"releaseDate": "2026-10-01",
		}, nil)
		suite.Equal(http.StatusCreated, resp.Code)

		var created models.Release
		env := suite.DecodeEnvelope(resp, &created)
		suite.True(env.Success)
		suite.Equal("Release created successfully", env.Message)
		suite.NotZero(created.ID)
		suite.Equal(models.DefaultChecklist(), created.Tasks())
		suite.Equal(models.Progress{Total: 7, Completed: 0, Percentage: 0}, created.Progress())
		suite.Equal(models.StatusPlanned, created.Status())
	})

	suite.Run("round trips checklist and progress", func() {
		checklist := models.Checklist{PrsMerged: true, ChangelogUpdated: true, TestsPassing: true}
		progress := models.ComputeProgress(checklist)
		suite.Equal(models.Progress{Total: 7, Completed: 3, Percentage: 43}, progress)

		resp := suite.SendRequest(http.MethodPost, "/api/releases", map[string]interface{}{
			"releaseName":       "Autumn",
			"version":           "2.0.0",
			"releaseDate":       "2026-10-01",
			"remarks":           "hotfix window",
			"checklist":         checklist,
			"checklistProgress": progress,
		}, nil)
		suite.Require().Equal(http.StatusCreated, resp.Code)
		var created models.Release
		suite.DecodeEnvelope(resp, &created)

		resp = suite.SendRequest(http.MethodGet, suite.path(created.ID), nil, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)
		var fetched models.Release
		suite.DecodeEnvelope(resp, &fetched)

		suite.Equal(checklist, fetched.Tasks())
		suite.Equal(progress, fetched.Progress())
		suite.Require().NotNil(fetched.Remarks)
		suite.Equal("hotfix window", *fetched.Remarks)
		suite.Equal("2026-10-01", fetched.ReleaseDate.String())
	})

	failures := []struct {
		name string
		body interface{}
	}{
		{name: "malformed json", body: `{"releaseName": `},
		{name: "missing release name", body: map[string]interface{}{"version": "1.0.0", "releaseDate": "2026-10-01"}},
		{name: "missing release date", body: map[string]interface{}{"releaseName": "x", "version": "1.0.0"}},
		{name: "invalid release date", body: map[string]interface{}{"releaseName": "x", "version": "1.0.0", "releaseDate": "soon"}},
		{name: "version too long", body: map[string]interface{}{"releaseName": "x", "version": strings.Repeat("9", 51), "releaseDate": "2026-10-01"}},
	}
	for _, tt := range failures {
		suite.Run(tt.name, func() {
			resp := suite.SendRequest(http.MethodPost, "/api/releases", tt.body, nil)
			suite.Equal(http.StatusInternalServerError, resp.Code)
			env := suite.DecodeEnvelope(resp, nil)
			suite.False(env.Success)
			suite.Equal("Failed to create release", env.Error)
		})
	}
}

func (suite *ReleasesTestSuite) TestReleaseService_CreateReleaseRecomputesProgress() {
	suite.Config = config.InitConfig(config.Testing)
	suite.Config.RecomputeProgress = true

	suite.Run("server derives progress", func() {
		resp := suite.SendRequest(http.MethodPost, "/api/releases", map[string]interface{}{
			"releaseName":       "Autumn",
			"version":           "2.0.0",
			"releaseDate":       "2026-10-01",
			"checklist":         models.Checklist{PrsMerged: true, TestsPassing: true},
			"checklistProgress": models.Progress{Total: 7, Completed: 7, Percentage: 100},
		}, nil)
		suite.Require().Equal(http.StatusCreated, resp.Code)

		var created models.Release
		suite.DecodeEnvelope(resp, &created)
		suite.Equal(models.Progress{Total: 7, Completed: 2, Percentage: 29}, created.Progress())
	})
}

func (suite *ReleasesTestSuite) TestReleaseService_UpdateRelease() {
	suite.Run("remarks only leaves the rest untouched", func() {
		before := suite.Seeded[0]
		resp := suite.SendRequest(http.MethodPut, suite.path(before.ID), map[string]interface{}{
			"remarks": "waiting on QA",
		}, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)

		var updated models.Release
		env := suite.DecodeEnvelope(resp, &updated)
		suite.Equal("Release updated successfully", env.Message)
		suite.Require().NotNil(updated.Remarks)
		suite.Equal("waiting on QA", *updated.Remarks)
		suite.Equal(before.ReleaseName, updated.ReleaseName)
		suite.Equal(before.Version, updated.Version)
		suite.Equal(before.Tasks(), updated.Tasks())
		suite.Equal(before.Progress(), updated.Progress())
	})

	suite.Run("null remarks clears them", func() {
		id := suite.Seeded[0].ID
		suite.Require().Equal(http.StatusOK,
			suite.SendRequest(http.MethodPut, suite.path(id), map[string]interface{}{"remarks": "x"}, nil).Code)

		resp := suite.SendRequest(http.MethodPut, suite.path(id), `{"remarks": null}`, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)
		var updated models.Release
		suite.DecodeEnvelope(resp, &updated)
		suite.Nil(updated.Remarks)
	})

	suite.Run("checklist and progress together", func() {
		checklist := models.Checklist{PrsMerged: true, ChangelogUpdated: true, TestsPassing: true}
		resp := suite.SendRequest(http.MethodPut, suite.path(suite.Seeded[1].ID), map[string]interface{}{
			"checklist":         checklist,
			"checklistProgress": models.ComputeProgress(checklist),
			"releaseDate":       "2026-08-01",
		}, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)

		var updated models.Release
		suite.DecodeEnvelope(resp, &updated)
		suite.Equal(checklist, updated.Tasks())
		suite.Equal(models.Progress{Total: 7, Completed: 3, Percentage: 43}, updated.Progress())
		suite.Equal("2026-08-01", updated.ReleaseDate.String())
		suite.Equal("Summer", updated.ReleaseName)
	})

	failures := []struct {
		name   string
		path   func() string
		body   interface{}
		status int
		errMsg string
	}{
		{
			name:   "empty body",
			path:   func() string { return suite.path(suite.Seeded[0].ID) },
			body:   map[string]interface{}{},
			status: http.StatusBadRequest,
			errMsg: "No fields to update",
		},
		{
			name:   "only unknown fields",
			path:   func() string { return suite.path(suite.Seeded[0].ID) },
			body:   map[string]interface{}{"owner": "nobody"},
			status: http.StatusBadRequest,
			errMsg: "No fields to update",
		},
		{
			name:   "unknown id",
			path:   func() string { return suite.path(suite.Seeded[1].ID + 100) },
			body:   map[string]interface{}{"remarks": "x"},
			status: http.StatusNotFound,
			errMsg: "Release not found",
		},
		{
			name:   "malformed json",
			path:   func() string { return suite.path(suite.Seeded[0].ID) },
			body:   `{"remarks": `,
			status: http.StatusInternalServerError,
			errMsg: "Failed to update release",
		},
		{
			name:   "blank release name",
			path:   func() string { return suite.path(suite.Seeded[0].ID) },
			body:   map[string]interface{}{"releaseName": ""},
			status: http.StatusInternalServerError,
			errMsg: "Failed to update release",
		},
		{
			name:   "null checklist",
			path:   func() string { return suite.path(suite.Seeded[0].ID) },
			body:   `{"checklist": null}`,
			status: http.StatusInternalServerError,
			errMsg: "Failed to update release",
		},
	}
	for _, tt := range failures {
		suite.Run(tt.name, func() {
			resp := suite.SendRequest(http.MethodPut, tt.path(), tt.body, nil)
			suite.Equal(tt.status, resp.Code)
			env := suite.DecodeEnvelope(resp, nil)
			suite.False(env.Success)
			suite.Equal(tt.errMsg, env.Error)
		})
	}
}

func (suite *ReleasesTestSuite) TestReleaseService_UpdateReleaseRecomputesProgress() {
	strict := func() {
		suite.Config = config.InitConfig(config.Testing)
		suite.Config.RecomputeProgress = true
	}

	strict()
	suite.Run("server derives progress from the checklist", func() {
		checklist := models.Checklist{PrsMerged: true, ChangelogUpdated: true, TestsPassing: true}
		resp := suite.SendRequest(http.MethodPut, suite.path(suite.Seeded[1].ID), map[string]interface{}{
			"checklist":         checklist,
			"checklistProgress": models.Progress{Total: 7, Completed: 7, Percentage: 100},
		}, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)

		var updated models.Release
		suite.DecodeEnvelope(resp, &updated)
		suite.Equal(checklist, updated.Tasks())
		suite.Equal(models.Progress{Total: 7, Completed: 3, Percentage: 43}, updated.Progress())
	})

	strict()
	suite.Run("patch without a checklist keeps progress", func() {
		before := suite.Seeded[0]
		resp := suite.SendRequest(http.MethodPut, suite.path(before.ID), map[string]interface{}{
			"remarks": "strict mode",
		}, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)

		var updated models.Release
		suite.DecodeEnvelope(resp, &updated)
		suite.Equal(models.Progress{Total: 7, Completed: 1, Percentage: 14}, updated.Progress())
		suite.Equal(before.Tasks(), updated.Tasks())
	})
}

func (suite *ReleasesTestSuite) TestReleaseService_DeleteRelease() {
	suite.Run("deleted release is gone", func() {
		id := suite.Seeded[0].ID
		resp := suite.SendRequest(http.MethodDelete, suite.path(id), nil, nil)
		suite.Require().Equal(http.StatusOK, resp.Code)
		env := suite.DecodeEnvelope(resp, nil)
		suite.True(env.Success)
		suite.Equal("Release deleted successfully", env.Message)

		resp = suite.SendRequest(http.MethodGet, suite.path(id), nil, nil)
		suite.Equal(http.StatusNotFound, resp.Code)
		suite.False(suite.DecodeEnvelope(resp, nil).Success)

		resp = suite.SendRequest(http.MethodGet, "/api/releases", nil, nil)
		var releases []models.Release
		suite.DecodeEnvelope(resp, &releases)
		suite.Len(releases, 1)
	})

	suite.Run("unknown id", func() {
		resp := suite.SendRequest(http.MethodDelete, suite.path(suite.Seeded[1].ID+100), nil, nil)
		suite.Equal(http.StatusNotFound, resp.Code)
		env := suite.DecodeEnvelope(resp, nil)
		suite.False(env.Success)
		suite.Equal("Release not found", env.Error)
	})
}

func (suite *ReleasesTestSuite) TestReleaseService_NotifiesOnCompletion() {
	notifier := &recordingNotifier{}
	all := models.Checklist{}
	for _, key := range models.ChecklistKeys {
		all.Set(key, true)
	}

	suite.Notifier = notifier
	suite.Run("only the transition to done notifies", func() {
		id := suite.Seeded[0].ID
		body := map[string]interface{}{
			"checklist":         all,
			"checklistProgress": models.ComputeProgress(all),
		}
		suite.Require().Equal(http.StatusOK, suite.SendRequest(http.MethodPut, suite.path(id), body, nil).Code)
		suite.Require().Equal(http.StatusOK, suite.SendRequest(http.MethodPut, suite.path(id), body, nil).Code)
		suite.Require().Equal(http.StatusOK,
			suite.SendRequest(http.MethodPut, suite.path(id), map[string]interface{}{"remarks": "shipped"}, nil).Code)

		suite.Require().Len(notifier.seen, 1)
		suite.Equal("Winter", notifier.seen[0].ReleaseName)
		suite.Equal(models.StatusDone, notifier.seen[0].Status())
	})

	suite.Notifier = notifier
	suite.Run("creating a done release notifies", func() {
		resp := suite.SendRequest(http.MethodPost, "/api/releases", map[string]interface{}{
			"releaseName":       "Hotfix",
			"version":           "1.0.1",
			"releaseDate":       "2026-02-01",
			"checklist":         all,
			"checklistProgress": models.ComputeProgress(all),
		}, nil)
		suite.Require().Equal(http.StatusCreated, resp.Code)
		suite.Require().Len(notifier.seen, 2)
		suite.Equal("Hotfix", notifier.seen[1].ReleaseName)
	})
}

func (suite *ReleasesTestSuite) TestReleaseService_SlowWebhookDoesNotDelayResponse() {
	unblock := make(chan struct{})
	hit := make(chan struct{}, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit <- struct{}{}
		select {
		case <-unblock:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(unblock)

	all := models.Checklist{}
	for _, key := range models.ChecklistKeys {
		all.Set(key, true)
	}

	suite.Notifier = notify.NewNotifier(ts.URL)
	suite.Run("create returns before the webhook answers", func() {
		start := time.Now()
		resp := suite.SendRequest(http.MethodPost, "/api/releases", map[string]interface{}{
			"releaseName":       "Hotfix",
			"version":           "1.0.2",
			"releaseDate":       "2026-02-02",
			"checklist":         all,
			"checklistProgress": models.ComputeProgress(all),
		}, nil)
		suite.Require().Equal(http.StatusCreated, resp.Code)
		suite.Less(time.Since(start), time.Second)

		select {
		case <-hit:
		case <-time.After(2 * time.Second):
			suite.Fail("webhook was not called")
		}
	})
}
