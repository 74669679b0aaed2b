package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"releasetracker/app/models"
	"releasetracker/app/release"
	"releasetracker/log"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// ReleaseClient talks to the /releases resource under a base URL such as
// http://localhost:5000/api.
type ReleaseClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

type Option func(*ReleaseClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *ReleaseClient) {
		c.httpClient = hc
	}
}

// WithBreakerSettings replaces the circuit breaker. IsSuccessful is always
// set so that client errors do not trip it.
func WithBreakerSettings(settings gobreaker.Settings) Option {
	return func(c *ReleaseClient) {
		c.cb = newBreaker(settings)
	}
}

func NewReleaseClient(baseURL string, opts ...Option) *ReleaseClient {
	c := &ReleaseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb: newBreaker(gobreaker.Settings{
			Name:        "release-api",
			MaxRequests: 3,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newBreaker(settings gobreaker.Settings) *gobreaker.CircuitBreaker {
	settings.IsSuccessful = isSuccessful
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		log.LogAppInfo("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
	}
	return gobreaker.NewCircuitBreaker(settings)
}

// isSuccessful counts only transport failures and 5xx responses against the
// breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < http.StatusInternalServerError
	}
	return false
}

func (c *ReleaseClient) GetAllReleases(ctx context.Context) ([]models.Release, error) {
	releases := []models.Release{}
	if err := c.do(ctx, http.MethodGet, "/releases", nil, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}

func (c *ReleaseClient) GetReleaseByID(ctx context.Context, id uint) (*models.Release, error) {
	var r models.Release
	if err := c.do(ctx, http.MethodGet, releasePath(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *ReleaseClient) CreateRelease(ctx context.Context, req release.CreateReleaseRequest) (*models.Release, error) {
	var r models.Release
	if err := c.do(ctx, http.MethodPost, "/releases", req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *ReleaseClient) UpdateRelease(ctx context.Context, id uint, patch release.ReleasePatch) (*models.Release, error) {
	var r models.Release
	if err := c.do(ctx, http.MethodPut, releasePath(id), patch, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *ReleaseClient) DeleteRelease(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, releasePath(id), nil, nil)
}

// ComputeProgress derives the progress of a checklist the way the server
// expects it to be submitted.
func ComputeProgress(checklist models.Checklist) models.Progress {
	return models.ComputeProgress(checklist)
}

func StatusOf(r models.Release) models.Status {
	return r.Status()
}

func releasePath(id uint) string {
	return "/releases/" + strconv.FormatUint(uint64(id), 10)
}

func (c *ReleaseClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	_, err := c.cb.Execute(func() (interface{}, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", method, path)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s %s", method, path)
		}
		return nil, handleResponse(resp.StatusCode, raw, out)
	})
	return err
}

// handleResponse unwraps the data field of an envelope, or decodes the whole
// body when there is none.
func handleResponse(status int, raw []byte, out interface{}) error {
	if status < 200 || status > 299 {
		apiErr := &APIError{
			StatusCode: status,
			Message:    fmt.Sprintf("HTTP error! status: %d", status),
		}
		var body struct {
			Error interface{} `json:"error"`
		}
		if json.Unmarshal(raw, &body) == nil {
			if msg, ok := body.Error.(string); ok && msg != "" {
				apiErr.Message = msg
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if data, ok := envelope["data"]; ok {
			return errors.Wrap(json.Unmarshal(data, out), "decoding response data")
		}
	}
	return errors.Wrap(json.Unmarshal(raw, out), "decoding response body")
}
