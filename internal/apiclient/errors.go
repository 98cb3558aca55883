package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ErrorBody is the backend's structured error shape. All fields are optional;
// field errors arrive as string lists.
type ErrorBody struct {
	Email           []string `json:"email"`
	Password        []string `json:"password"`
	PasswordConfirm []string `json:"password_confirm"`
	NonFieldErrors  []string `json:"non_field_errors"`
	Detail          string   `json:"detail"`
	Message         string   `json:"message"`
}

// APIError is a non-2xx backend response. Raw keeps the unparsed body for
// logging; Body is best-effort parsed.
type APIError struct {
	Status int
	Body   ErrorBody
	Raw    string
}

func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Raw: string(raw)}
	if err := json.Unmarshal(raw, &apiErr.Body); err != nil {
		// Not a JSON body: surface a status-derived message instead.
		apiErr.Body = ErrorBody{
			Message: fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
		}
	}
	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.Status)
}

const msgBadCredentials = "Correo electrónico o contraseña incorrectos."

// UserMessage picks the message to show the user, checking fields in priority
// order: email, password, password_confirm, non_field_errors, detail, message.
// Authentication-failure phrasing from the backend is replaced with a generic
// localized message. fallback is used when nothing matches.
func (e *APIError) UserMessage(fallback string) string {
	b := e.Body

	if len(b.Email) > 0 {
		return "Correo: " + b.Email[0]
	}
	if len(b.Password) > 0 {
		return "Contraseña: " + b.Password[0]
	}
	if len(b.PasswordConfirm) > 0 {
		return "Confirmar contraseña: " + b.PasswordConfirm[0]
	}
	if len(b.NonFieldErrors) > 0 {
		if isBadCredentialsPhrase(b.NonFieldErrors[0]) {
			return msgBadCredentials
		}
		return b.NonFieldErrors[0]
	}
	if b.Detail != "" {
		if isBadCredentialsPhrase(b.Detail) {
			return msgBadCredentials
		}
		return b.Detail
	}
	if b.Message != "" {
		return b.Message
	}
	return fallback
}

func isBadCredentialsPhrase(s string) bool {
	return strings.Contains(s, "Unable to log in") || strings.Contains(s, "Invalid credentials")
}
