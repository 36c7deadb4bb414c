package validators

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrPasswordEmpty      = errors.New("no password provided")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong    = errors.New("password is too long")
	ErrPasswordWhitespace = errors.New("password can't contain whitespace characters")
)

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	// Length rules count characters, not bytes
	if utf8.RuneCountInString(p) < 8 {
		return ErrPasswordTooShort
	}

	if utf8.RuneCountInString(p) > 255 {
		return ErrPasswordTooLong
	}

	if strings.IndexFunc(p, unicode.IsSpace) != -1 {
		return ErrPasswordWhitespace
	}

	return nil
}
