package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
)

// BackendPaths holds the endpoint paths of the travel-research API, relative to its base URL.
type BackendPaths struct {
	Health         string
	AdditionalInfo string
	FinalResponse  string
}

// Backend is a client for the travel-research API. It implements the handlers' Backend interface and
// translates failed calls into models.StatusError or errors wrapping models.ErrNoResponse.
type Backend struct {
	baseURL *url.URL
	paths   BackendPaths

	client *http.Client

	logger *slog.Logger
}

// NewBackend creates a client for the API hosted at baseURL. A nil httpClient means
// http.DefaultClient is used.
func NewBackend(baseURL string, paths BackendPaths, httpClient *http.Client, logger *slog.Logger) (Backend, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Backend{}, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Backend{}, fmt.Errorf("invalid api base url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return Backend{
		baseURL: u,
		paths:   paths,
		client:  httpClient,
		logger:  logger.With(slog.String("module", "backend")),
	}, nil
}

// Health calls the status endpoint.
func (b Backend) Health(ctx context.Context) (models.HealthStatus, error) {
	var status models.HealthStatus
	if err := b.do(ctx, http.MethodGet, b.paths.Health, nil, &status); err != nil {
		return models.HealthStatus{}, err
	}
	return status, nil
}

// GatherInfo calls the gather-information endpoint with the given query. The returned Info is the
// backend's raw text; sanitizing it is left to the caller.
func (b Backend) GatherInfo(ctx context.Context, query string) (models.InfoResult, error) {
	var res models.InfoResult
	if err := b.do(ctx, http.MethodPost, b.paths.AdditionalInfo, models.InfoRequest{Query: query}, &res); err != nil {
		return models.InfoResult{}, err
	}
	return res, nil
}

// FinalResponse calls the synthesis endpoint.
func (b Backend) FinalResponse(ctx context.Context, req models.FinalRequest) (models.FinalResult, error) {
	var res models.FinalResult
	if err := b.do(ctx, http.MethodPost, b.paths.FinalResponse, req, &res); err != nil {
		return models.FinalResult{}, err
	}
	return res, nil
}

func (b Backend) endpoint(path string) string {
	return b.baseURL.JoinPath(path).String()
}

func (b Backend) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	endpoint := b.endpoint(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	b.logger.Debug("Calling api", slog.String("method", method), slog.String("url", endpoint))

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrNoResponse, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := statusError(resp, respBody)
		b.logger.Debug("Api returned an error status",
			slog.String("url", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("detail", statusErr.Detail))
		return statusErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError builds a StatusError from a non-2xx response. The body is decoded leniently: detail may
// be a string or any JSON value (FastAPI validation errors send a list), which is kept as compact JSON.
func statusError(resp *http.Response, body []byte) *models.StatusError {
	statusText := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if statusText == "" {
		statusText = http.StatusText(resp.StatusCode)
	}
	e := &models.StatusError{
		StatusCode: resp.StatusCode,
		StatusText: statusText,
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}
	e.Message = payload.Message

	if len(payload.Detail) == 0 || string(payload.Detail) == "null" {
		return e
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		e.Detail = detail
		return e
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload.Detail); err == nil {
		e.Detail = compact.String()
	}
	return e
}
