package handlers

import "strings"

const defaultChatPlaceholder = "Ask about a destination, attraction or ticket prices…"

// ChatInput is the chat panel's message box. It never talks to the network itself: a submitted
// message is handed to the caller's dispatch function.
type ChatInput struct {
	// Disabled blocks submissions while a reply is pending.
	Disabled    bool
	Placeholder string
}

// Submit dispatches raw after trimming it. Empty messages and submissions on a disabled input are
// dropped silently. It reports whether the message was dispatched, in which case the field must be
// cleared.
func (c ChatInput) Submit(raw string, dispatch func(message string) error) (bool, error) {
	if c.Disabled {
		return false, nil
	}

	message := strings.TrimSpace(raw)
	if message == "" {
		return false, nil
	}

	if err := dispatch(message); err != nil {
		return false, err
	}
	return true, nil
}

func (c ChatInput) withDefaults() ChatInput {
	if c.Placeholder == "" {
		c.Placeholder = defaultChatPlaceholder
	}
	return c
}
