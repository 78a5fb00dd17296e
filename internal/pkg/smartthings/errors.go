package smartthings

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuthentication = errors.New("smartthings: authentication failed")
	ErrForbidden      = errors.New("smartthings: forbidden, token is missing a required scope")
	ErrNetwork        = errors.New("smartthings: network error")
	ErrUnexpected     = errors.New("smartthings: unexpected error")
)

// RequestError is returned for non-2xx responses other than 401 and 403.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("smartthings: request failed with status %d: %s", e.StatusCode, e.Message)
}

type apiErrorBody struct {
	RequestID string `json:"requestId"`
	Error     struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// IsAuthError reports whether err is an authentication or scope failure.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthentication) || errors.Is(err, ErrForbidden)
}
