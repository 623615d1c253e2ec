package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// JourneyClient is a typed client of the Journey service. Every call uses
// the JSON codec and returns failures as *Error.
type JourneyClient struct {
	cc grpc.ClientConnInterface
}

func NewJourneyClient(cc grpc.ClientConnInterface) *JourneyClient {
	return &JourneyClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *JourneyClient, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	var trailer metadata.MD
	opts = append(opts, grpc.CallContentSubtype(ContentSubtype), grpc.Trailer(&trailer))
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, FromStatus(err, trailer)
	}
	return out, nil
}

func (c *JourneyClient) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c, MethodPing, &Empty{}, opts...)
}

func (c *JourneyClient) Register(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c, MethodRegister, in, opts...)
}

func (c *JourneyClient) Login(ctx context.Context, in *Credentials, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c, MethodLogin, in, opts...)
}

func (c *JourneyClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenPair, error) {
	return invoke[TokenPair](ctx, c, MethodRefreshToken, in, opts...)
}

func (c *JourneyClient) Logout(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodLogout, in, opts...)
	return err
}

func (c *JourneyClient) CreateDiary(ctx context.Context, in *CreateDiaryRequest, opts ...grpc.CallOption) (*DiaryResponse, error) {
	return invoke[DiaryResponse](ctx, c, MethodCreateDiary, in, opts...)
}

func (c *JourneyClient) UpdateDiary(ctx context.Context, in *UpdateDiaryRequest, opts ...grpc.CallOption) (*DiaryResponse, error) {
	return invoke[DiaryResponse](ctx, c, MethodUpdateDiary, in, opts...)
}

func (c *JourneyClient) DeleteDiary(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodDeleteDiary, &IDRequest{ID: id}, opts...)
	return err
}

func (c *JourneyClient) GetDiary(ctx context.Context, id string, opts ...grpc.CallOption) (*DiaryResponse, error) {
	return invoke[DiaryResponse](ctx, c, MethodGetDiary, &IDRequest{ID: id}, opts...)
}

func (c *JourneyClient) ListDiaries(ctx context.Context, opts ...grpc.CallOption) (*ListDiariesResponse, error) {
	return invoke[ListDiariesResponse](ctx, c, MethodListDiaries, &Empty{}, opts...)
}

func (c *JourneyClient) CreateTimeCapsule(ctx context.Context, in *CreateTimeCapsuleRequest, opts ...grpc.CallOption) (*TimeCapsuleResponse, error) {
	return invoke[TimeCapsuleResponse](ctx, c, MethodCreateTimeCapsule, in, opts...)
}

func (c *JourneyClient) GetTimeCapsule(ctx context.Context, id string, opts ...grpc.CallOption) (*TimeCapsuleResponse, error) {
	return invoke[TimeCapsuleResponse](ctx, c, MethodGetTimeCapsule, &IDRequest{ID: id}, opts...)
}

func (c *JourneyClient) ListTimeCapsules(ctx context.Context, opts ...grpc.CallOption) (*ListTimeCapsulesResponse, error) {
	return invoke[ListTimeCapsulesResponse](ctx, c, MethodListTimeCapsules, &Empty{}, opts...)
}

func (c *JourneyClient) ListOpenableTimeCapsules(ctx context.Context, opts ...grpc.CallOption) (*ListTimeCapsulesResponse, error) {
	return invoke[ListTimeCapsulesResponse](ctx, c, MethodListOpenableTimeCapsules, &Empty{}, opts...)
}

func (c *JourneyClient) OpenTimeCapsule(ctx context.Context, id string, opts ...grpc.CallOption) (*TimeCapsuleResponse, error) {
	return invoke[TimeCapsuleResponse](ctx, c, MethodOpenTimeCapsule, &IDRequest{ID: id}, opts...)
}

func (c *JourneyClient) CancelTimeCapsuleNotification(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := invoke[Empty](ctx, c, MethodCancelTimeCapsuleNotification, &IDRequest{ID: id}, opts...)
	return err
}

func (c *JourneyClient) ListScheduledNotifications(ctx context.Context, opts ...grpc.CallOption) (*ListNotificationsResponse, error) {
	return invoke[ListNotificationsResponse](ctx, c, MethodListScheduledNotifications, &Empty{}, opts...)
}

func (c *JourneyClient) ListPresentedNotifications(ctx context.Context, opts ...grpc.CallOption) (*ListNotificationsResponse, error) {
	return invoke[ListNotificationsResponse](ctx, c, MethodListPresentedNotifications, &Empty{}, opts...)
}

func (c *JourneyClient) RespondToNotification(ctx context.Context, in *RespondRequest, opts ...grpc.CallOption) (*RespondResponse, error) {
	return invoke[RespondResponse](ctx, c, MethodRespondToNotification, in, opts...)
}

func (c *JourneyClient) ListDesigns(ctx context.Context, opts ...grpc.CallOption) (*ListDesignsResponse, error) {
	return invoke[ListDesignsResponse](ctx, c, MethodListDesigns, &Empty{}, opts...)
}

func (c *JourneyClient) GetDesign(ctx context.Context, id string, opts ...grpc.CallOption) (*DesignResponse, error) {
	return invoke[DesignResponse](ctx, c, MethodGetDesign, &IDRequest{ID: id}, opts...)
}

func (c *JourneyClient) CreateDesign(ctx context.Context, in *CreateDesignRequest, opts ...grpc.CallOption) (*CreateDesignResponse, error) {
	return invoke[CreateDesignResponse](ctx, c, MethodCreateDesign, in, opts...)
}
