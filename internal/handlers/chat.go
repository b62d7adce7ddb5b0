package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
	"github.com/google/uuid"
	"github.com/tmaxmax/go-sse"
)

type chat struct {
	ID    string
	Title string

	Active bool
}

type message struct {
	ID        string
	ChatID    string
	Role      string
	Text      string
	HTML      template.HTML
	Timestamp time.Time

	Pending bool
	Failed  bool
}

type chatboxData struct {
	CurrentChatID string
	Messages      []message
	Input         ChatInput
}

// SSE event types for real-time updates.
var (
	chatsSSEType        = sse.Type("chats")
	messagesSSEType     = sse.Type("messages")
	closeMessageSSEType = sse.Type("closeMessage")
)

// HandleChats processes messages submitted from the chat input. The "message" form field goes
// through ChatInput.Submit, and an optional "chat_id" field selects the chat to continue; without
// one a new chat is created.
//
// A dispatched message is stored with a pending assistant reply and rendered back: the whole chatbox
// for a new chat, or just the two new messages otherwise. The reply is gathered asynchronously and
// delivered over SSE. Blank messages, and messages sent while the chat still waits for a reply, are
// dropped with 204 No Content so the browser keeps the field as it is.
func (m Main) HandleChats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	chatID := r.FormValue("chat_id")
	claimed := chatID != "" && m.pending.tryAdd(chatID)
	input := ChatInput{Disabled: chatID != "" && !claimed}

	var out bytes.Buffer
	dispatched, err := input.Submit(r.FormValue("message"), func(msg string) error {
		return m.dispatchChat(r.Context(), &out, chatID, msg)
	})
	if claimed && !dispatched && err == nil {
		m.pending.done(chatID)
	}
	if err != nil {
		m.logger.Error("Failed to dispatch chat message",
			slog.String("chatID", chatID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !dispatched {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = out.WriteTo(w)
}

// dispatchChat stores msg and a pending reply in chatID, or in a new chat when chatID is empty, and
// starts gathering the reply. An existing chat must already be marked pending by the caller; the mark
// is released when the reply could not be started.
func (m Main) dispatchChat(ctx context.Context, out *bytes.Buffer, chatID, msg string) (err error) {
	isNewChat := chatID == ""
	if isNewChat {
		chatID, err = m.newChat(ctx, msg)
		if err != nil {
			return err
		}
		m.pending.tryAdd(chatID)
	}

	replying := false
	defer func() {
		if err != nil && !replying {
			m.pending.done(chatID)
		}
	}()

	um := models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   msg,
		Timestamp: time.Now(),
	}
	um.ID, err = m.store.AddMessage(ctx, chatID, um)
	if err != nil {
		return fmt.Errorf("failed to add user message: %w", err)
	}

	am := models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleAssistant,
		Timestamp: time.Now(),
		Pending:   true,
	}
	am.ID, err = m.store.AddMessage(ctx, chatID, am)
	if err != nil {
		return fmt.Errorf("failed to add assistant message: %w", err)
	}

	replying = true
	go m.reply(chatID, am, msg)

	if isNewChat {
		messages, err := m.store.Messages(ctx, chatID)
		if err != nil {
			return fmt.Errorf("failed to get messages: %w", err)
		}
		msgs, err := m.messageViews(chatID, messages)
		if err != nil {
			return err
		}
		data := chatboxData{
			CurrentChatID: chatID,
			Messages:      msgs,
			Input:         ChatInput{Disabled: true}.withDefaults(),
		}
		if err := m.templates.ExecuteTemplate(out, "chatbox", data); err != nil {
			return fmt.Errorf("failed to execute chatbox template: %w", err)
		}
		return nil
	}

	for _, mm := range []models.Message{um, am} {
		view, err := m.messageView(chatID, mm)
		if err != nil {
			return err
		}
		tmpl := "user_message"
		if mm.Role == models.RoleAssistant {
			tmpl = "ai_message"
		}
		if err := m.templates.ExecuteTemplate(out, tmpl, view); err != nil {
			return fmt.Errorf("failed to execute %s template: %w", tmpl, err)
		}
	}
	return nil
}

func (m Main) newChat(ctx context.Context, firstMessage string) (string, error) {
	newChat := models.Chat{
		ID:    uuid.New().String(),
		Title: models.TitleFromMessage(firstMessage),
	}
	newChatID, err := m.store.AddChat(ctx, newChat)
	if err != nil {
		return "", fmt.Errorf("failed to add chat: %w", err)
	}

	divs, err := m.chatDivs(ctx, newChatID)
	if err != nil {
		return "", fmt.Errorf("failed to create chat divs: %w", err)
	}

	msg := sse.Message{
		Type: chatsSSEType,
	}
	msg.AppendData(divs)

	if err := m.sseSrv.Publish(&msg, chatsSSETopic); err != nil {
		return "", fmt.Errorf("failed to publish chats: %w", err)
	}

	return newChatID, nil
}

// reply gathers information for query, stores it as the content of the pending assistant message
// aiMsg and publishes the rendered reply on the message's topic. Failures are stored as the reply
// too, so the transcript always settles.
func (m Main) reply(chatID string, aiMsg models.Message, query string) {
	ctx := context.Background()

	defer func() {
		m.pending.done(chatID)

		e := &sse.Message{Type: closeMessageSSEType}
		e.AppendData("bye")
		_ = m.sseSrv.Publish(e, messageIDTopic(aiMsg.ID))
	}()

	lc := m.gatherInfo(ctx, query)

	aiMsg.Pending = false
	if res, ok := lc.Result(); ok {
		aiMsg.Content = res.Info
	} else {
		aiMsg.Content, _ = lc.Err()
		aiMsg.Failed = true
	}

	if err := m.store.UpdateMessage(ctx, chatID, aiMsg); err != nil {
		m.logger.Error("Failed to update message",
			slog.String("messageID", aiMsg.ID),
			slog.String(errLoggerKey, err.Error()))
		return
	}

	content, err := m.replyContent(chatID, aiMsg)
	if err != nil {
		m.logger.Error("Failed to render reply",
			slog.String("messageID", aiMsg.ID),
			slog.String(errLoggerKey, err.Error()))
		return
	}

	msg := sse.Message{
		Type: messagesSSEType,
	}
	msg.AppendData(content)
	if err := m.sseSrv.Publish(&msg, messageIDTopic(aiMsg.ID)); err != nil {
		m.logger.Error("Failed to publish message",
			slog.String("messageID", aiMsg.ID),
			slog.String(errLoggerKey, err.Error()))
	}
}

// replyContent renders the content of a settled assistant message as it is swapped into the page.
func (m Main) replyContent(chatID string, aiMsg models.Message) (string, error) {
	view, err := m.messageView(chatID, aiMsg)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := m.templates.ExecuteTemplate(&sb, "ai_message_content", view); err != nil {
		return "", fmt.Errorf("failed to execute ai_message_content template: %w", err)
	}
	return sb.String(), nil
}

func (m Main) messageView(chatID string, mm models.Message) (message, error) {
	view := message{
		ID:        mm.ID,
		ChatID:    chatID,
		Role:      string(mm.Role),
		Text:      mm.Content,
		Timestamp: mm.Timestamp,
		Pending:   mm.Pending,
		Failed:    mm.Failed,
	}
	if mm.Role != models.RoleAssistant || mm.Pending || mm.Failed {
		return view, nil
	}

	html, err := m.markdown.Render(mm.Content)
	if err != nil {
		return message{}, fmt.Errorf("failed to render message %s: %w", mm.ID, err)
	}
	view.HTML = html
	return view, nil
}

func (m Main) messageViews(chatID string, messages []models.Message) ([]message, error) {
	views := make([]message, len(messages))
	for i, mm := range messages {
		view, err := m.messageView(chatID, mm)
		if err != nil {
			return nil, err
		}
		views[i] = view
	}
	return views, nil
}

func (m Main) chatDivs(ctx context.Context, activeID string) (string, error) {
	chats, err := m.store.Chats(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get chats: %w", err)
	}

	var sb strings.Builder
	for _, ch := range chats {
		err := m.templates.ExecuteTemplate(&sb, "chat_title", chat{
			ID:     ch.ID,
			Title:  ch.Title,
			Active: ch.ID == activeID,
		})
		if err != nil {
			return "", fmt.Errorf("failed to execute chat_title template: %w", err)
		}
	}
	return sb.String(), nil
}
