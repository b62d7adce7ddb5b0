package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
)

type healthView struct {
	Status models.HealthStatus
	OK     bool
	Error  string
}

type infoView struct {
	Query string
	Info  template.HTML
	OK    bool
	Error string
}

type finalView struct {
	Response template.HTML
	OK       bool
	Notice   string
	Error    string
}

// checkHealth runs one health check. The lifecycle is always settled when it returns.
func (m Main) checkHealth(ctx context.Context) (lc models.Lifecycle[models.HealthStatus]) {
	lc.Begin()
	defer lc.Settle()

	status, err := m.backend.Health(ctx)
	if err != nil {
		m.logger.Error("Health check failed", slog.String(errLoggerKey, err.Error()))
		lc.Fail(detailMessage(err, healthErrorMessage))
		return lc
	}
	lc.Succeed(status)
	return lc
}

// gatherInfo asks the backend for additional information about query and strips tool-invocation
// markup from the answer. An empty query fails without calling the backend.
func (m Main) gatherInfo(ctx context.Context, query string) (lc models.Lifecycle[models.InfoResult]) {
	if strings.TrimSpace(query) == "" {
		lc.Fail(emptyQueryMessage)
		return lc
	}

	lc.Begin()
	defer lc.Settle()

	res, err := m.backend.GatherInfo(ctx, query)
	if err != nil {
		m.logger.Error("Failed to gather information",
			slog.String("query", query),
			slog.String(errLoggerKey, err.Error()))
		lc.Fail(infoErrorMessage(err))
		return lc
	}
	if res.Info == "" {
		lc.Fail(emptyInfoMessage)
		return lc
	}

	res.Info = models.SanitizeToolMarkup(res.Info)
	lc.Succeed(res)
	return lc
}

// generateFinal asks the backend to synthesize a final response from content. A blank userQuery is
// left out of the request, any other value is sent as typed.
func (m Main) generateFinal(ctx context.Context, content, userQuery string) (lc models.Lifecycle[models.FinalResult]) {
	if strings.TrimSpace(content) == "" {
		lc.Fail(contentRequiredMessage)
		return lc
	}

	lc.Begin()
	defer lc.Settle()

	req := models.FinalRequest{Content: content}
	if strings.TrimSpace(userQuery) != "" {
		req.UserQuery = userQuery
	}

	res, err := m.backend.FinalResponse(ctx, req)
	if err != nil {
		m.logger.Error("Failed to generate final response", slog.String(errLoggerKey, err.Error()))
		lc.Fail(detailMessage(err, finalErrorMessage))
		return lc
	}
	lc.Succeed(res)
	return lc
}

// HandleHealth runs a health check and renders the status panel. The panel requests it once when
// the page loads and again whenever the user refreshes it.
func (m Main) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lc := m.checkHealth(r.Context())

	var view healthView
	switch lc.Status() {
	case models.StatusSuccess:
		view.Status, view.OK = lc.Result()
	case models.StatusFailed:
		view.Error, _ = lc.Err()
	case models.StatusIdle, models.StatusLoading:
	}
	m.render(w, "health_status", view)
}

// HandleAdditionalInfo processes the "query" form field and renders the gathered information as
// markdown, or the error that prevented it.
func (m Main) HandleAdditionalInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lc := m.gatherInfo(r.Context(), r.FormValue("query"))

	var view infoView
	switch lc.Status() {
	case models.StatusSuccess:
		res, _ := lc.Result()
		html, err := m.markdown.Render(res.Info)
		if err != nil {
			m.logger.Error("Failed to render information", slog.String(errLoggerKey, err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		view = infoView{Query: res.Query, Info: html, OK: true}
	case models.StatusFailed:
		view.Error, _ = lc.Err()
	case models.StatusIdle, models.StatusLoading:
	}
	m.render(w, "info_result", view)
}

// HandleFinalResponse processes the "content" and optional "user_query" form fields and renders the
// synthesized response as markdown. The response is shown as returned, without markup stripping.
func (m Main) HandleFinalResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lc := m.generateFinal(r.Context(), r.FormValue("content"), r.FormValue("user_query"))

	var view finalView
	switch lc.Status() {
	case models.StatusSuccess:
		res, _ := lc.Result()
		if res.Response == "" {
			view.Notice = emptyFinalMessage
			break
		}
		html, err := m.markdown.Render(res.Response)
		if err != nil {
			m.logger.Error("Failed to render final response", slog.String(errLoggerKey, err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		view = finalView{Response: html, OK: true}
	case models.StatusFailed:
		view.Error, _ = lc.Err()
	case models.StatusIdle, models.StatusLoading:
	}
	m.render(w, "final_result", view)
}
