package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// StatusResponse — сводный статус daemon'а.
type StatusResponse struct {
	Visits      uint64 `json:"visits"`
	Skipped     uint64 `json:"skipped"`
	HashBurn    uint64 `json:"hash_burn"`
	QueueLen    int    `json:"queue_len"`
	InFlight    int64  `json:"in_flight"`
	Slots       int64  `json:"slots"`
	Workers     int    `json:"workers"`
	BusyWorkers int    `json:"busy_workers"`
}

// WorkerResponse — состояние worker'а из API.
type WorkerResponse struct {
	ID          int     `json:"id"`
	Busy        bool    `json:"busy"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Speed       float64 `json:"speed"`
	ScanDelayed int64   `json:"scan_delayed"`
	Visits      uint64  `json:"visits"`
}

// JobResponse — job из API.
type JobResponse struct {
	ID           int64   `json:"id"`
	ExternalID   string  `json:"external_id"`
	Name         string  `json:"name,omitempty"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	LastModified int64   `json:"last_modified"`
	Updated      int64   `json:"updated"`
	Staleness    int64   `json:"staleness"`
}

// --- Envelope types ---

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client — HTTP клиент для API daemon'а.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт Client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// GetStatus возвращает сводный статус.
func (c *Client) GetStatus() (*StatusResponse, error) {
	var env dataEnvelope[StatusResponse]
	if err := c.get("/api/v1/status", nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListWorkers возвращает состояние всех workers.
func (c *Client) ListWorkers() ([]WorkerResponse, error) {
	var env dataEnvelope[[]WorkerResponse]
	if err := c.get("/api/v1/workers", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ListJobs возвращает снимок самых протухших jobs.
func (c *Client) ListJobs(limit int) ([]JobResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var env dataEnvelope[[]JobResponse]
	if err := c.get("/api/v1/jobs", query, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// get выполняет GET запрос и декодирует ответ.
func (c *Client) get(path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := c.http.Get(u)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envErr errorEnvelope
		if err := json.Unmarshal(body, &envErr); err == nil && envErr.Error.Message != "" {
			return fmt.Errorf("%s: %s", envErr.Error.Code, envErr.Error.Message)
		}
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
