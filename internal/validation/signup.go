// Package validation содержит проверки пользовательского ввода.
package validation

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxNameLength = 100

// Ошибки валидации заявки на подписку.
var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailInvalid  = errors.New("email is not valid")
	ErrNameTooLong   = errors.New("name is too long")
)

// ValidateSignup проверяет поля заявки на подписку.
func ValidateSignup(email, firstName, lastName string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrEmailInvalid
	}

	if utf8.RuneCountInString(firstName) > maxNameLength || utf8.RuneCountInString(lastName) > maxNameLength {
		return ErrNameTooLong
	}

	return nil
}
