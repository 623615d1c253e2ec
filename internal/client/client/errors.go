package client

import (
	"errors"

	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("not signed in")
)

// mapError keeps auth failures, whose messages are meant for the user, and
// folds session and connectivity problems into sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var e *rpc.Error
	if errors.As(err, &e) && e.AuthKind != "" {
		return err
	}

	switch {
	case rpc.IsCode(err, codes.Unauthenticated):
		return ErrUnauthorized
	case rpc.IsCode(err, codes.Unavailable):
		return errors.Join(ErrUnavailable, err)
	case rpc.IsCode(err, codes.DeadlineExceeded):
		return ErrUnavailable
	}
	return err
}
