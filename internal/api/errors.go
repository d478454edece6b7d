package api

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

const (
	genericMessage = "An error occurred. Please try again."
	networkMessage = "Could not reach the interview service. Please check your connection and try again."
	timeoutMessage = "The interview service did not respond in time. Please try again."
	abortedMessage = "The request was cancelled."
)

// NetworkError - запрос не дошел до сервиса или ответ не был получен
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: ошибка сети: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TimeoutError - сервис не ответил за отведенное время
type TimeoutError struct {
	Op      string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: превышено время ожидания (%s): %v", e.Op, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ServiceError - сервис ответил статусом ошибки
type ServiceError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: сервис вернул статус %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: сервис вернул статус %d: %s", e.Op, e.Status, e.Message)
}

// IsRetryable сообщает, имеет ли смысл повторить запрос вручную
func IsRetryable(err error) bool {
	var netErr *NetworkError
	var timeoutErr *TimeoutError
	return errors.As(err, &netErr) || errors.As(err, &timeoutErr)
}

// UserMessage превращает ошибку вызова сервиса в одно сообщение для пользователя.
// Сообщение сервиса показывается дословно, если оно есть.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		if serviceErr.Message != "" {
			return serviceErr.Message
		}
		return genericMessage
	}

	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return timeoutMessage
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return networkMessage
	}

	if errors.Is(err, context.Canceled) {
		return abortedMessage
	}
	return genericMessage
}
