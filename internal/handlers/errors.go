package handlers

import (
	"errors"
	"fmt"

	"github.com/MegaGrindStone/travel-web-ui/internal/models"
)

const (
	noResponseMessage      = "No response from server. Please check if the API server is running."
	unexpectedErrorMessage = "An unexpected error occurred"

	emptyQueryMessage      = "Please enter a query"
	emptyInfoMessage       = "Received an empty response from the server"
	contentRequiredMessage = "Content is required"
	emptyFinalMessage      = "The server returned an empty response"
	healthErrorMessage     = "Failed to connect to the API server"
	finalErrorMessage      = "Failed to generate the final response"
)

// infoErrorMessage derives the message shown when gathering information fails. A structured server
// error wins, then the status line, then the no-response notice, then the error itself.
func infoErrorMessage(err error) string {
	var se *models.StatusError
	if errors.As(err, &se) {
		if se.Detail != "" {
			return se.Detail
		}
		if se.Message != "" {
			return se.Message
		}
		return fmt.Sprintf("Server error: %d %s", se.StatusCode, se.StatusText)
	}
	if errors.Is(err, models.ErrNoResponse) {
		return noResponseMessage
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return unexpectedErrorMessage
}

// detailMessage derives an error message from the server's detail, falling back to the error's own
// message and then to fallback. A request that reached no server is reported without the transport
// details, which name the API address.
func detailMessage(err error, fallback string) string {
	var se *models.StatusError
	if errors.As(err, &se) && se.Detail != "" {
		return se.Detail
	}
	if errors.Is(err, models.ErrNoResponse) {
		return models.ErrNoResponse.Error()
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
