package rpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(ContentSubtype)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())

	open := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	raw, err := c.Marshal(&CreateTimeCapsuleRequest{DiaryID: "d1", OpenDate: open})
	require.NoError(t, err)
	assert.JSONEq(t, `{"diaryId":"d1","openDate":"2027-01-01T00:00:00Z"}`, string(raw))

	var got CreateTimeCapsuleRequest
	require.NoError(t, c.Unmarshal(raw, &got))
	assert.Equal(t, "d1", got.DiaryID)
	assert.True(t, got.OpenDate.Equal(open))
}

func TestFromStatus(t *testing.T) {
	assert.NoError(t, FromStatus(nil, nil))

	plain := errors.New("dial failed")
	assert.Same(t, plain, FromStatus(plain, nil))

	err := FromStatus(status.Error(codes.Unauthenticated, "The password is incorrect."),
		metadata.Pairs(AuthKindKey, "wrong-password"))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, codes.Unauthenticated, e.Code)
	assert.Equal(t, "wrong-password", e.AuthKind)
	assert.Equal(t, "The password is incorrect. (wrong-password)", e.Error())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	assert.True(t, IsCode(err, codes.Unauthenticated))
	assert.False(t, IsCode(err, codes.NotFound))
}

func TestPublicMethods(t *testing.T) {
	assert.True(t, PublicMethods["/journey.v1.Journey/Login"])
	assert.False(t, PublicMethods[FullMethod(MethodCreateDiary)])
}

type pingServer struct{ JourneyServer }

func (pingServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func TestUnaryHandler_RunsInterceptor(t *testing.T) {
	var desc grpc.MethodDesc
	for _, m := range ServiceDesc.Methods {
		if m.MethodName == MethodPing {
			desc = m
		}
	}
	require.NotNil(t, desc.Handler)

	dec := func(v any) error { return nil }

	var seen string
	interceptor := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		seen = info.FullMethod
		return h(ctx, req)
	}

	out, err := desc.Handler(pingServer{}, context.Background(), dec, interceptor)
	require.NoError(t, err)
	assert.Equal(t, "OK", out.(*PingResponse).Status)
	assert.Equal(t, "/journey.v1.Journey/Ping", seen)

	out, err = desc.Handler(pingServer{}, context.Background(), dec, nil)
	require.NoError(t, err)
	assert.Equal(t, "OK", out.(*PingResponse).Status)
}
