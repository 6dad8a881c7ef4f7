// Package search talks to the Vivi question-answering backend.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/vivi-ia/vivi/internal/chat"
	"github.com/vivi-ia/vivi/internal/config"
	vlog "github.com/vivi-ia/vivi/internal/log"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// HealthStatus is the body of a healthy /api/health response.
type HealthStatus struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	AgentType string `json:"agent_type"`
}

// searchRequest is the JSON body posted to the search endpoint.
type searchRequest struct {
	Pergunta string `json:"pergunta"`
}

// Client implements chat.SearchClient over HTTP.
type Client struct {
	baseURL    string
	searchPath string
	healthPath string
	http       *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the backend described by cfg.
// A zero TimeoutSeconds leaves requests unbounded.
func New(cfg config.BackendConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		searchPath: cfg.SearchPath,
		healthPath: cfg.HealthPath,
		http:       &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ chat.SearchClient = (*Client)(nil)

// Search posts question to the backend. The body is interpreted whatever
// the status code: FastAPI error bodies carry a "detail" that is surfaced
// as the error. Transport and decoding failures yield MsgConnectionError.
func (c *Client) Search(ctx context.Context, question string) chat.SearchResponse {
	requestID := uuid.NewString()
	logger := c.logger.With(zap.String("request_id", requestID))
	start := time.Now()

	body, status, err := c.post(ctx, requestID, question)
	if err != nil {
		logger.Warn("search request failed", vlog.Event(vlog.EventSearchFailed), zap.Error(err))
		return chat.SearchResponse{Error: chat.MsgConnectionError}
	}
	if !gjson.ValidBytes(body) {
		logger.Warn("search response is not JSON",
			vlog.Event(vlog.EventSearchFailed),
			zap.Int("status", status))
		return chat.SearchResponse{Error: chat.MsgConnectionError}
	}

	resp := parseResponse(body)
	logger.Debug("search completed",
		zap.Int("status", status),
		zap.Bool("success", resp.Success),
		zap.Duration("elapsed", time.Since(start)))
	return resp
}

func (c *Client) post(ctx context.Context, requestID, question string) ([]byte, int, error) {
	payload, err := json.Marshal(searchRequest{Pergunta: question})
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.searchPath, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("post %s: %w", c.searchPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// parseResponse maps a backend JSON body onto a SearchResponse.
func parseResponse(body []byte) chat.SearchResponse {
	parsed := gjson.ParseBytes(body)
	if parsed.Get("success").Bool() {
		return chat.SearchResponse{Success: true, Answer: parsed.Get("resposta").String()}
	}
	if msg := parsed.Get("error").String(); msg != "" {
		return chat.SearchResponse{Error: msg}
	}
	return chat.SearchResponse{Error: detailMessage(parsed)}
}

// detailMessage extracts FastAPI's "detail", which is a string for
// HTTPException and a list of objects for validation errors.
func detailMessage(parsed gjson.Result) string {
	detail := parsed.Get("detail")
	if detail.IsArray() {
		return detail.Get("0.msg").String()
	}
	return detail.String()
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.healthPath, nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("get %s: %w", c.healthPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return HealthStatus{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := detailMessage(gjson.ParseBytes(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return HealthStatus{}, fmt.Errorf("backend unhealthy (%d): %s", resp.StatusCode, msg)
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return HealthStatus{}, fmt.Errorf("parse health response: %w", err)
	}
	c.logger.Info("health checked", vlog.Event(vlog.EventHealthChecked), zap.String("status", status.Status))
	return status, nil
}
