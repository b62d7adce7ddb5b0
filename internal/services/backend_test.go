package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
	"github.com/MegaGrindStone/travel-web-ui/internal/services"
)

var testPaths = services.BackendPaths{
	Health:         "/health",
	AdditionalInfo: "/additional-info",
	FinalResponse:  "/final-response",
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) services.Backend {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := services.NewBackend(srv.URL, testPaths, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	return b
}

func TestNewBackendInvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, u := range []string{"", "localhost", "://bad"} {
		if _, err := services.NewBackend(u, testPaths, nil, logger); err == nil {
			t.Errorf("NewBackend(%q) error = nil, want error", u)
		}
	}
}

func TestBackendHealth(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/health" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"status":"healthy","message":"Travel API is running","version":"1.2.0"}`))
	})

	got, err := b.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	want := models.HealthStatus{Status: "healthy", Message: "Travel API is running", Version: "1.2.0"}
	if got != want {
		t.Errorf("Health() = %+v, want %+v", got, want)
	}
}

func TestBackendGatherInfo(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/additional-info" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req models.InfoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Query != "San Diego Zoo" {
			t.Errorf("query = %q, want %q", req.Query, "San Diego Zoo")
		}
		_, _ = w.Write([]byte(`{"success":true,"query":"San Diego Zoo","info":"<search_rag>zoo</search_rag>Open daily"}`))
	})

	got, err := b.GatherInfo(context.Background(), "San Diego Zoo")
	if err != nil {
		t.Fatalf("GatherInfo() error = %v", err)
	}
	if got.Info != "<search_rag>zoo</search_rag>Open daily" {
		t.Errorf("GatherInfo() info = %q, backend text should be returned unmodified", got.Info)
	}
	if got.Success == nil || !*got.Success {
		t.Errorf("GatherInfo() success = %v, want true", got.Success)
	}
}

func TestBackendFinalResponsePayload(t *testing.T) {
	tests := []struct {
		name        string
		req         models.FinalRequest
		wantHasKey  bool
		wantUserQry string
	}{
		{
			name:       "blank query omitted",
			req:        models.FinalRequest{Content: "notes"},
			wantHasKey: false,
		},
		{
			name:        "query sent",
			req:         models.FinalRequest{Content: "notes", UserQuery: " zoo tickets "},
			wantHasKey:  true,
			wantUserQry: " zoo tickets ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				var payload map[string]any
				if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if payload["content"] != "notes" {
					t.Errorf("content = %v, want %q", payload["content"], "notes")
				}
				q, ok := payload["user_query"]
				if ok != tt.wantHasKey {
					t.Errorf("user_query present = %v, want %v", ok, tt.wantHasKey)
				}
				if ok && q != tt.wantUserQry {
					t.Errorf("user_query = %v, want %q", q, tt.wantUserQry)
				}
				_, _ = w.Write([]byte(`{"success":true,"response":"# Plan"}`))
			})

			got, err := b.FinalResponse(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("FinalResponse() error = %v", err)
			}
			if got.Response != "# Plan" {
				t.Errorf("FinalResponse() response = %q, want %q", got.Response, "# Plan")
			}
		})
	}
}

func TestBackendStatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantMsg    string
	}{
		{
			name:       "string detail",
			status:     http.StatusInternalServerError,
			body:       `{"detail":"Agent failed to run"}`,
			wantDetail: "Agent failed to run",
		},
		{
			name:       "structured detail",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail": [ {"loc": ["body","query"], "msg": "field required"} ]}`,
			wantDetail: `[{"loc":["body","query"],"msg":"field required"}]`,
		},
		{
			name:    "message only",
			status:  http.StatusBadRequest,
			body:    `{"message":"Query too long"}`,
			wantMsg: "Query too long",
		},
		{
			name:   "unstructured body",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
		},
		{
			name:   "null detail",
			status: http.StatusServiceUnavailable,
			body:   `{"detail":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := b.GatherInfo(context.Background(), "q")
			var se *models.StatusError
			if !errors.As(err, &se) {
				t.Fatalf("GatherInfo() error = %v, want *models.StatusError", err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.status)
			}
			if se.StatusText != http.StatusText(tt.status) {
				t.Errorf("StatusText = %q, want %q", se.StatusText, http.StatusText(tt.status))
			}
			if se.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", se.Detail, tt.wantDetail)
			}
			if se.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", se.Message, tt.wantMsg)
			}
		})
	}
}

func TestBackendNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	b, err := services.NewBackend(baseURL, testPaths, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	_, err = b.Health(context.Background())
	if !errors.Is(err, models.ErrNoResponse) {
		t.Errorf("Health() error = %v, want ErrNoResponse", err)
	}
}

func TestBackendMalformedResponse(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := b.Health(context.Background())
	if err == nil {
		t.Fatal("Health() error = nil, want decode error")
	}
	if errors.Is(err, models.ErrNoResponse) {
		t.Error("decode failure should not be reported as ErrNoResponse")
	}
	var se *models.StatusError
	if errors.As(err, &se) {
		t.Error("decode failure should not be reported as a StatusError")
	}
}
