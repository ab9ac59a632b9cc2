package api

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError запрос не дошел до сервера или ответ не прочитан
type NetworkError struct {
	Err    error
	Method string
	Path   string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError сервер ответил статусом вне 2xx
type HTTPError struct {
	Message    string // сообщение из ErrorResponse, если удалось разобрать
	Body       string
	StatusCode int
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsUnauthorized проверяет, что сервер отклонил токен
func IsUnauthorized(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized
}

// IsNetworkError проверяет, что сервер недоступен
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
