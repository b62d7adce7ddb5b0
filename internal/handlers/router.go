package handlers

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router wires the UI routes to m. Static assets are served from static under /static/.
func (m Main) Router(static fs.FS) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(m.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", m.HandleHome)
	r.Get("/health-check", m.HandleHealth)
	r.Post("/additional-info", m.HandleAdditionalInfo)
	r.Post("/final-response", m.HandleFinalResponse)
	r.Post("/chats", m.HandleChats)

	r.Get("/sse/messages", m.HandleSSE)
	r.Get("/sse/chats", m.HandleSSE)

	return r
}
