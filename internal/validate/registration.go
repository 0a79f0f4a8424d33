package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	minNameLen     = 3
	minPasswordLen = 8
)

// Result - сообщения по полям; пустая строка означает, что поле в порядке
type Result struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	OK       bool   `json:"ok"`
}

func Registration(fullname, email, password, role string) Result {
	r := Result{
		Name:     Name(fullname),
		Email:    Email(email),
		Password: Password(password),
		Role:     Role(role),
	}
	r.OK = r.Name == "" && r.Email == "" && r.Password == "" && r.Role == ""
	return r
}

func Name(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "Full name is required."
	case utf8.RuneCountInString(v) < minNameLen:
		return "Please provide your full name."
	}
	return ""
}

func Email(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return "Email is required."
	case !emailRe.MatchString(v):
		return "Please enter a valid email."
	}
	return ""
}

// Password: не короче 8 символов, хотя бы одна заглавная латинская буква и одна цифра
func Password(v string) string {
	var upper, digit bool
	for _, c := range v {
		if c >= 'A' && c <= 'Z' {
			upper = true
		}
		if c <= unicode.MaxASCII && unicode.IsDigit(c) {
			digit = true
		}
	}
	switch {
	case v == "":
		return "Password is required."
	case utf8.RuneCountInString(v) < minPasswordLen:
		return "Password must be at least 8 characters."
	case !upper:
		return "Include at least one uppercase letter."
	case !digit:
		return "Include at least one number."
	}
	return ""
}

func Role(v string) string {
	if strings.TrimSpace(v) == "" {
		return "Please select a role."
	}
	return ""
}
