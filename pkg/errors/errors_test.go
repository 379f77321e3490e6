package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidNode, "node %q: too long", "a")
	if err.Code != ErrCodeInvalidNode {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidNode)
	}
	if want := `INVALID_NODE: node "a": too long`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "mongo ping")

	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if want := "NETWORK_ERROR: mongo ping: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCodeLookup(t *testing.T) {
	session := New(ErrCodeSessionNotFound, "session abc")
	tests := []struct {
		name    string
		err     error
		code    Code
		matches bool
	}{
		{"direct", session, ErrCodeSessionNotFound, true},
		{"other code", session, ErrCodeNotFound, false},
		{"fmt wrapped", fmt.Errorf("get: %w", session), ErrCodeSessionNotFound, true},
		{"outer code wins", Wrap(ErrCodeTimeout, New(ErrCodeNetwork, "inner"), "outer"), ErrCodeTimeout, true},
		{"plain", errors.New("plain"), "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != "" {
				if got := Is(tt.err, tt.code); got != tt.matches {
					t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.matches)
				}
			}
			if tt.matches {
				if got := GetCode(tt.err); got != tt.code {
					t.Errorf("GetCode() = %v, want %v", got, tt.code)
				}
			} else if tt.code == "" && GetCode(tt.err) != "" {
				t.Errorf("GetCode() = %v, want empty", GetCode(tt.err))
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(Wrap(ErrCodeInvalidStyle, errors.New("toml: line 3"), "style theme.toml")); got != "style theme.toml" {
		t.Errorf("UserMessage() = %q, want the message without code or cause", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q, want plain error text", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid node", New(ErrCodeInvalidNode, "x"), http.StatusBadRequest},
		{"invalid style", New(ErrCodeInvalidStyle, "x"), http.StatusBadRequest},
		{"session", New(ErrCodeSessionNotFound, "x"), http.StatusNotFound},
		{"wrapped not found", Wrap(ErrCodeNotFound, errors.New("inner"), "x"), http.StatusNotFound},
		{"network", New(ErrCodeNetwork, "x"), http.StatusBadGateway},
		{"timeout", New(ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{"unsupported", New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
