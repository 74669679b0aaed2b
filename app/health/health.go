package health

import (
	"context"
	"net/http"
	"time"

	"releasetracker/log"

	"github.com/gin-gonic/gin"
)

// TimestampLayout is RFC 3339 in UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	DB Pinger
}

// GetHealth reports liveness. The response stays 200 when the database is
// down so the process is not restarted for a database outage.
func (m HealthService) GetHealth(c *gin.Context) {
	body := gin.H{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(TimestampLayout),
	}
	if m.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := m.DB.Ping(ctx); err != nil {
			log.LogAppWarn("Database ping failed", err)
			body["database"] = "unreachable"
		}
	}
	c.JSON(http.StatusOK, body)
}
