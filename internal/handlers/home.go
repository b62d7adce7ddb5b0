package handlers

import (
	"log/slog"
	"net/http"
)

type homePageData struct {
	Chats []chat
	chatboxData
}

// HandleHome renders the research page: the chat list, the chat selected by the optional "chat_id"
// query parameter, and the health, additional information and final response panels.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chatID := r.URL.Query().Get("chat_id")

	chats, err := m.store.Chats(ctx)
	if err != nil {
		m.logger.Error("Failed to get chats", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := homePageData{
		Chats: make([]chat, len(chats)),
		chatboxData: chatboxData{
			CurrentChatID: chatID,
			Input:         ChatInput{Disabled: chatID != "" && m.pending.has(chatID)}.withDefaults(),
		},
	}
	for i, ch := range chats {
		data.Chats[i] = chat{
			ID:     ch.ID,
			Title:  ch.Title,
			Active: ch.ID == chatID,
		}
	}

	if chatID != "" {
		messages, err := m.store.Messages(ctx, chatID)
		if err != nil {
			m.logger.Error("Failed to get messages",
				slog.String("chatID", chatID),
				slog.String(errLoggerKey, err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data.Messages, err = m.messageViews(chatID, messages)
		if err != nil {
			m.logger.Error("Failed to render messages",
				slog.String("chatID", chatID),
				slog.String(errLoggerKey, err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	m.render(w, "home.html", data)
}
