package rpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Metadata keys used by the service.
const (
	// AccessTokenKey carries the bearer access token on requests.
	AccessTokenKey = "access_token"
	// LanguageKey carries the caller's preferred languages, in
	// Accept-Language syntax.
	LanguageKey = "accept-language"
	// AuthKindKey is set in the trailer of failed auth calls to the code
	// of the auth failure, e.g. "wrong-password".
	AuthKindKey = "x-auth-kind"
)

// Error is a failed call. Message is already localized for display.
type Error struct {
	Code     codes.Code
	Message  string
	AuthKind string
}

func (e *Error) Error() string {
	if e.AuthKind != "" {
		return e.Message + " (" + e.AuthKind + ")"
	}
	return e.Message
}

// GRPCStatus lets status.FromError and status.Code see through Error.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Code, e.Message)
}

// FromStatus converts a call error and its trailer into *Error. Errors that
// carry no status are returned unchanged.
func FromStatus(err error, trailer metadata.MD) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	e := &Error{Code: st.Code(), Message: st.Message()}
	if v := trailer.Get(AuthKindKey); len(v) > 0 {
		e.AuthKind = v[0]
	}
	return e
}

// IsCode reports whether err is a call error with code c.
func IsCode(err error, c codes.Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == c
	}
	return status.Code(err) == c
}
