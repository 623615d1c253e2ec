package grpc

import (
	"context"
	"errors"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/server/auth"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	langKey   ctxKey = "lang"
)

func firstValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// languageInterceptor picks the message language from the caller's
// accept-language metadata.
func (s *GRPCServer) languageInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	lang := s.lang
	if header := firstValue(ctx, rpc.LanguageKey); header != "" {
		if _, idx := language.MatchStrings(s.matcher, header); idx >= 0 {
			lang = supportedLanguages[idx]
		}
	}
	return handler(context.WithValue(ctx, langKey, lang), req)
}

// accessTokenInterceptor authenticates every call outside
// rpc.PublicMethods and stores the caller's user id in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if rpc.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstValue(ctx, rpc.AccessTokenKey)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	return handler(context.WithValue(ctx, userIDKey, userID), req)
}

func userIDFrom(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return userID, nil
}

func (s *GRPCServer) langFrom(ctx context.Context) language.Tag {
	if lang, ok := ctx.Value(langKey).(language.Tag); ok {
		return lang
	}
	return s.lang
}
