package apiclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"email outranks everything",
			`{"email":["not valid"],"password":["too short"],"detail":"ignored"}`,
			"Correo: not valid",
		},
		{
			"password outranks confirmation",
			`{"password":["too short"],"password_confirm":["does not match"]}`,
			"Contraseña: too short",
		},
		{
			"password confirmation",
			`{"password_confirm":["does not match"]}`,
			"Confirmar contraseña: does not match",
		},
		{
			"non_field_errors passes through",
			`{"non_field_errors":["account disabled"]}`,
			"account disabled",
		},
		{
			"non_field_errors bad credentials is localized",
			`{"non_field_errors":["Unable to log in with provided credentials."]}`,
			"Correo electrónico o contraseña incorrectos.",
		},
		{
			"detail passes through",
			`{"detail":"not found"}`,
			"not found",
		},
		{
			"detail bad credentials is localized",
			`{"detail":"Invalid credentials given."}`,
			"Correo electrónico o contraseña incorrectos.",
		},
		{
			"message is last before the fallback",
			`{"message":"maintenance window"}`,
			"maintenance window",
		},
		{
			"empty object falls back",
			`{}`,
			"fallback message",
		},
		{
			"empty field lists fall back",
			`{"email":[],"password":[]}`,
			"fallback message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := newAPIError(http.StatusBadRequest, []byte(tt.body))
			assert.Equal(t, tt.want, apiErr.UserMessage("fallback message"))
		})
	}
}

func TestNewAPIErrorNonJSON(t *testing.T) {
	apiErr := newAPIError(http.StatusBadGateway, []byte("<html>upstream down</html>"))

	assert.Equal(t, "HTTP 502: Bad Gateway", apiErr.UserMessage("fallback"))
	assert.Equal(t, "<html>upstream down</html>", apiErr.Raw)
	assert.Equal(t, "backend returned status 502", apiErr.Error())
}
