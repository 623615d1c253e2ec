package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"strings"
)

// Kind is the closed set of authentication failures a user can see.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidEmail
	KindUserDisabled
	KindUserNotFound
	KindWrongPassword
	KindEmailInUse
	KindWeakPassword
	KindNetwork

	kindCount
)

var kindCodes = [...]string{
	KindUnknown:       "unknown",
	KindInvalidEmail:  "invalid-email",
	KindUserDisabled:  "user-disabled",
	KindUserNotFound:  "user-not-found",
	KindWrongPassword: "wrong-password",
	KindEmailInUse:    "email-already-in-use",
	KindWeakPassword:  "weak-password",
	KindNetwork:       "network-request-failed",
}

// every kind needs a code
var _ = [1]struct{}{}[len(kindCodes)-int(kindCount)]

// String returns the wire code of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return kindCodes[KindUnknown]
	}
	return kindCodes[k]
}

// ParseKind maps a wire code back to its kind; unknown codes map to
// KindUnknown.
func ParseKind(code string) Kind {
	for k, c := range kindCodes {
		if c == code {
			return Kind(k)
		}
	}
	return KindUnknown
}

// Error is an authentication failure of a known kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "auth: " + e.Kind.String()
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf classifies err. Auth errors keep their kind, deadline and network
// failures become KindNetwork, anything else is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return KindNetwork
	}
	return KindUnknown
}

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// ValidateEmail rejects addresses that are not a bare user@host.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return NewError(KindInvalidEmail, nil)
	}
	return nil
}

// ValidatePassword rejects passwords shorter than MinPasswordLength runes.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return NewError(KindWeakPassword, nil)
	}
	return nil
}
