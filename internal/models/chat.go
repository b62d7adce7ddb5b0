package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Chat represents a conversation container in the chat system. It provides basic identification and
// labeling capabilities for organizing message threads.
type Chat struct {
	ID    string
	Title string
}

// Message represents an individual entry within a chat. User messages carry the text that was
// dispatched from the chat input, assistant messages carry the markdown source of the research
// reply once it arrives.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time

	// Pending is set on an assistant message while its reply is still being gathered.
	Pending bool
	// Failed is set on an assistant message when Content holds an error message instead of a reply.
	Failed bool
}

// Role represents the role of a message participant.
type Role string

const (
	// RoleUser represents a message typed by the user.
	RoleUser Role = "user"
	// RoleAssistant represents a reply produced by the research backend.
	RoleAssistant Role = "assistant"
)

const maxTitleRunes = 40

// TitleFromMessage derives a chat title from the first message of the chat. Whitespace runs are
// collapsed, and titles longer than 40 runes are cut and suffixed with an ellipsis.
func TitleFromMessage(message string) string {
	title := strings.Join(strings.Fields(message), " ")
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxTitleRunes])) + "…"
}
