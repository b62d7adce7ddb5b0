package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	travelwebui "github.com/MegaGrindStone/travel-web-ui"
	"github.com/MegaGrindStone/travel-web-ui/internal/models"
	"github.com/tmaxmax/go-sse"
)

//go:generate mockgen -source=main.go -destination=mock_main_test.go -package=handlers_test Backend

// Backend is the travel-research API the widgets talk to. Failed calls return a *models.StatusError
// when the server answered with an error status, or an error wrapping models.ErrNoResponse when the
// request never reached a server.
type Backend interface {
	Health(ctx context.Context) (models.HealthStatus, error)
	GatherInfo(ctx context.Context, query string) (models.InfoResult, error)
	FinalResponse(ctx context.Context, req models.FinalRequest) (models.FinalResult, error)
}

// Store defines the interface for managing chat and message persistence. It provides methods for
// creating and reading chats, and for creating, reading, and updating their messages.
type Store interface {
	Chats(ctx context.Context) ([]models.Chat, error)
	AddChat(ctx context.Context, chat models.Chat) (string, error)

	Messages(ctx context.Context, chatID string) ([]models.Message, error)
	AddMessage(ctx context.Context, chatID string, message models.Message) (string, error)
	UpdateMessage(ctx context.Context, chatID string, message models.Message) error
}

// MarkdownRenderer turns markdown source into HTML that is safe to embed in a page.
type MarkdownRenderer interface {
	Render(source string) (template.HTML, error)
}

// Main serves the research UI: the home page, the widget endpoints and the server-sent events that
// deliver chat replies.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template

	backend  Backend
	store    Store
	markdown MarkdownRenderer

	pending *pendingChats

	logger *slog.Logger
}

const (
	chatsSSETopic = "chats"

	errLoggerKey = "err"
)

// NewMain creates a Main instance with the provided collaborators. It parses the HTML templates from
// the embedded filesystem and prepares the SSE server, which subscribes every client to the chats
// topic and, when a message_id query parameter is given, to that message's topic.
func NewMain(backend Backend, store Store, md MarkdownRenderer, logger *slog.Logger) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		travelwebui.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, fmt.Errorf("failed to parse templates: %w", err)
	}

	m := Main{
		templates: tmpl,
		backend:   backend,
		store:     store,
		markdown:  md,
		pending:   &pendingChats{chats: make(map[string]struct{})},
		logger:    logger.With(slog.String("module", "main")),
	}
	m.sseSrv = &sse.Server{OnSession: m.onSession}

	return m, nil
}

func (m Main) onSession(s *sse.Session) (sse.Subscription, bool) {
	topics := []string{sse.DefaultTopic, chatsSSETopic}

	query := s.Req.URL.Query()
	if messageID := query.Get("message_id"); messageID != "" {
		// A reply that settled before the browser connected would never be published again, so
		// it is sent straight to this session and the stream ends.
		if m.replaySettled(s, query.Get("chat_id"), messageID) {
			return sse.Subscription{}, false
		}
		topics = append(topics, messageIDTopic(messageID))
	}

	return sse.Subscription{
		Client:      s,
		LastEventID: s.LastEventID,
		Topics:      topics,
	}, true
}

// replaySettled sends the stored reply messageID of chatID followed by a close message when the
// reply is no longer pending. It reports whether the reply was sent.
func (m Main) replaySettled(s *sse.Session, chatID, messageID string) bool {
	if chatID == "" {
		return false
	}

	ctx := s.Req.Context()
	messages, err := m.store.Messages(ctx, chatID)
	if err != nil {
		m.logger.Error("Failed to get messages",
			slog.String("chatID", chatID),
			slog.String(errLoggerKey, err.Error()))
		return false
	}
	idx := slices.IndexFunc(messages, func(mm models.Message) bool { return mm.ID == messageID })
	if idx == -1 || messages[idx].Pending {
		return false
	}

	content, err := m.replyContent(chatID, messages[idx])
	if err != nil {
		m.logger.Error("Failed to render reply",
			slog.String("messageID", messageID),
			slog.String(errLoggerKey, err.Error()))
		return false
	}

	msg := &sse.Message{Type: messagesSSEType}
	msg.AppendData(content)
	closeMsg := &sse.Message{Type: closeMessageSSEType}
	closeMsg.AppendData("bye")

	for _, e := range []*sse.Message{msg, closeMsg} {
		if err := s.Send(e); err != nil {
			m.logger.Error("Failed to send reply",
				slog.String("messageID", messageID),
				slog.String(errLoggerKey, err.Error()))
			return true
		}
	}
	if err := s.Flush(); err != nil {
		m.logger.Error("Failed to flush reply",
			slog.String("messageID", messageID),
			slog.String(errLoggerKey, err.Error()))
	}
	return true
}

func messageIDTopic(messageID string) string {
	return fmt.Sprintf("message-%s", messageID)
}

// HandleSSE serves the server-sent events stream used for chat replies and the chat list.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}

// Shutdown gracefully terminates the SSE server. It broadcasts a close message to all connected
// clients and waits up to 5 seconds for connections to terminate.
func (m Main) Shutdown(ctx context.Context) error {
	e := &sse.Message{Type: sse.Type("closeChat")}
	// SSE requires data on every event
	e.AppendData("bye")

	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}

func (m Main) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := m.templates.ExecuteTemplate(&buf, name, data); err != nil {
		m.logger.Error("Failed to execute template",
			slog.String("template", name),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// pendingChats tracks the chats that are waiting for a reply. Their inputs stay disabled until the
// reply is stored.
type pendingChats struct {
	mu    sync.Mutex
	chats map[string]struct{}
}

// tryAdd marks chatID as pending. It reports false when the chat was already pending.
func (p *pendingChats) tryAdd(chatID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.chats[chatID]; ok {
		return false
	}
	p.chats[chatID] = struct{}{}
	return true
}

func (p *pendingChats) has(chatID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.chats[chatID]
	return ok
}

func (p *pendingChats) done(chatID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.chats, chatID)
}
