package grpc

import (
	"context"
	"errors"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/server/auth"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/ardenspace/space3-your-journey/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var authCodes = map[auth.Kind]codes.Code{
	auth.KindInvalidEmail:  codes.InvalidArgument,
	auth.KindWeakPassword:  codes.InvalidArgument,
	auth.KindEmailInUse:    codes.AlreadyExists,
	auth.KindUserNotFound:  codes.Unauthenticated,
	auth.KindWrongPassword: codes.Unauthenticated,
	auth.KindUserDisabled:  codes.PermissionDenied,
	auth.KindNetwork:       codes.Unavailable,
}

// toStatus maps a service error to a gRPC status. Auth failures carry a
// localized message and their kind in the trailer; unexpected errors are
// logged and hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var ae *auth.Error
	if errors.As(err, &ae) {
		_ = grpc.SetTrailer(ctx, metadata.Pairs(rpc.AuthKindKey, ae.Kind.String()))
		code, ok := authCodes[ae.Kind]
		if !ok {
			code = codes.Unknown
		}
		return status.Error(code, auth.Message(ae.Kind, s.langFrom(ctx)))
	}

	switch {
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, facility.ErrNotPresented):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrCapsuleLocked):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrCapsuleExists), errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrInvalidOpenDate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, services.ErrStorageUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	}

	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
