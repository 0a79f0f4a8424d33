package waste

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrEmailExists        = errors.New("Email already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// Message возвращает текст ошибки для пользователя: без префикса ErrValidation
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if errors.Is(err, ErrValidation) {
		msg = strings.TrimPrefix(msg, ErrValidation.Error()+": ")
	}
	return msg
}
