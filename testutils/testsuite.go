package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"releasetracker/app/health"
	"releasetracker/app/models"
	"releasetracker/app/release"
	"releasetracker/notify"
	"releasetracker/server"
	"releasetracker/utilities/config"
	"releasetracker/utilities/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	r   *gin.Engine
	db  *gorm.DB
	Txn *gorm.DB

	// User configurable test parameters, must be reset after each subtest
	Data           *DataSeed
	Config         *config.Config
	Notifier       notify.Notifier
	ReleaseService *release.ReleaseService

	// Rows inserted from Data for the running subtest
	Seeded []models.Release
}

// SetupSuite opens a throwaway sqlite file, or the postgres database named by
// TEST_DATABASE_URL when it is set.
func (suite *TestSuite) SetupSuite() {
	if dsn := os.Getenv("TEST_DATABASE_URL"); dsn != "" {
		suite.db = db.InitDB(db.Postgres, dsn)
		return
	}
	suite.db = db.InitDB(db.SQLite, filepath.Join(suite.T().TempDir(), "releases.db"))
}

func (suite *TestSuite) SetupSubTest() {
	if suite.Config == nil {
		suite.Config = config.InitConfig(config.Testing)
	}

	suite.Txn = suite.db.Begin()
	suite.Seeded = suite.Data.Seed(suite.Txn)

	if suite.Notifier == nil {
		suite.Notifier = notify.Noop{}
	}
	if suite.ReleaseService == nil {
		suite.ReleaseService = &release.ReleaseService{
			Store:    release.NewStore(suite.Txn),
			Config:   suite.Config,
			Notifier: suite.Notifier,
		}
	}

	suite.r = server.InitRoutes(suite.Config, *suite.ReleaseService, health.HealthService{DB: suite.ReleaseService.Store})
}

func (suite *TestSuite) TearDownSubTest() {
	suite.Config = nil
	suite.Notifier = nil
	suite.Txn.Rollback()
	suite.ReleaseService = nil
	suite.Seeded = nil
}

func (suite *TestSuite) TearDownSuite() {
	if err := suite.db.Migrator().DropTable(&models.Release{}); err != nil {
		suite.T().Fatal(err)
	}
	if sqlDB, err := suite.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// Router is the engine built for the running subtest.
func (suite *TestSuite) Router() *gin.Engine {
	return suite.r
}

// SendRequest JSON encodes body. A string or []byte body is sent verbatim so
// tests can post malformed JSON.
func (suite *TestSuite) SendRequest(method string, path string, body interface{},
	headers map[string]string) *httptest.ResponseRecorder {

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewBuffer(b)
	default:
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			suite.T().Fatal(err)
		}
		reader = &buf
	}

	req, _ := http.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.r.ServeHTTP(w, req)

	return w
}

// DecodeEnvelope unmarshals a response body, decoding data into dst when dst
// is not nil.
func (suite *TestSuite) DecodeEnvelope(w *httptest.ResponseRecorder, dst interface{}) release.Envelope {
	var raw struct {
		release.Envelope
		Data json.RawMessage `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &raw), w.Body.String())
	if dst != nil {
		suite.Require().NotEmpty(raw.Data, w.Body.String())
		suite.Require().NoError(json.Unmarshal(raw.Data, dst))
	}
	return raw.Envelope
}
