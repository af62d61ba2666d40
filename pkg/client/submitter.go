// Package client submits completed wizard forms to the Dhukuti API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dhukuti/internal/wizard"
)

const defaultTimeout = 15 * time.Second

// envelope mirrors the API's standard response.
type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
}

// Config describes one creation endpoint.
type Config[T any] struct {
	BaseURL string
	// Path is appended to BaseURL, e.g. "/api/v1/groups".
	Path string
	// Redirect is prefixed to the created id to build Result.Redirect, e.g. "/groups/".
	Redirect string
	// Payload converts the form into the request body. The form itself is sent when nil.
	Payload func(T) any
	// Token returns the bearer token for the request. Anonymous when nil.
	Token      func(ctx context.Context) (string, error)
	HTTPClient *http.Client
}

// Submitter posts a form as one JSON document. Non-2xx responses become
// user errors carrying the server's message.
type Submitter[T any] struct {
	cfg Config[T]
}

func NewSubmitter[T any](cfg Config[T]) *Submitter[T] {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Submitter[T]{cfg: cfg}
}

var _ wizard.Submitter[struct{}] = (*Submitter[struct{}])(nil)

func (s *Submitter[T]) Submit(ctx context.Context, form T) (wizard.Result, error) {
	var payload any = form
	if s.cfg.Payload != nil {
		payload = s.cfg.Payload(form)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return wizard.Result{}, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+s.cfg.Path, bytes.NewReader(body))
	if err != nil {
		return wizard.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.cfg.Token != nil {
		token, err := s.cfg.Token(ctx)
		if err != nil {
			return wizard.Result{}, fmt.Errorf("resolve token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return wizard.Result{}, fmt.Errorf("post %s: %w", s.cfg.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return wizard.Result{}, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := fmt.Errorf("%s returned %d", s.cfg.Path, resp.StatusCode)
		if decodeErr != nil || env.Message == "" {
			return wizard.Result{}, statusErr
		}
		return wizard.Result{}, wizard.NewUserError(env.Message, statusErr)
	}
	if decodeErr != nil {
		return wizard.Result{}, fmt.Errorf("decode response: %w", decodeErr)
	}

	return s.result(env.Data)
}

func (s *Submitter[T]) result(data json.RawMessage) (wizard.Result, error) {
	var created struct {
		ID string `json:"id"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &created); err != nil {
			return wizard.Result{}, fmt.Errorf("decode created resource: %w", err)
		}
	}

	result := wizard.Result{ID: created.ID, Data: data}
	if s.cfg.Redirect != "" && created.ID != "" {
		result.Redirect = s.cfg.Redirect + created.ID
	}
	return result, nil
}
