package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "journey.v1.Journey"

// Method names of the Journey service.
const (
	MethodPing                          = "Ping"
	MethodRegister                      = "Register"
	MethodLogin                         = "Login"
	MethodRefreshToken                  = "RefreshToken"
	MethodLogout                        = "Logout"
	MethodCreateDiary                   = "CreateDiary"
	MethodUpdateDiary                   = "UpdateDiary"
	MethodDeleteDiary                   = "DeleteDiary"
	MethodGetDiary                      = "GetDiary"
	MethodListDiaries                   = "ListDiaries"
	MethodCreateTimeCapsule             = "CreateTimeCapsule"
	MethodGetTimeCapsule                = "GetTimeCapsule"
	MethodListTimeCapsules              = "ListTimeCapsules"
	MethodListOpenableTimeCapsules      = "ListOpenableTimeCapsules"
	MethodOpenTimeCapsule               = "OpenTimeCapsule"
	MethodCancelTimeCapsuleNotification = "CancelTimeCapsuleNotification"
	MethodListScheduledNotifications    = "ListScheduledNotifications"
	MethodListPresentedNotifications    = "ListPresentedNotifications"
	MethodRespondToNotification         = "RespondToNotification"
	MethodListDesigns                   = "ListDesigns"
	MethodGetDesign                     = "GetDesign"
	MethodCreateDesign                  = "CreateDesign"
)

// FullMethod returns the /service/method path of name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodPing):         true,
	FullMethod(MethodRegister):     true,
	FullMethod(MethodLogin):        true,
	FullMethod(MethodRefreshToken): true,
	FullMethod(MethodLogout):       true,
}

// JourneyServer is the server side of the Journey service.
type JourneyServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)

	Register(context.Context, *Credentials) (*RegisterResponse, error)
	Login(context.Context, *Credentials) (*TokenPair, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenPair, error)
	Logout(context.Context, *RefreshTokenRequest) (*Empty, error)

	CreateDiary(context.Context, *CreateDiaryRequest) (*DiaryResponse, error)
	UpdateDiary(context.Context, *UpdateDiaryRequest) (*DiaryResponse, error)
	DeleteDiary(context.Context, *IDRequest) (*Empty, error)
	GetDiary(context.Context, *IDRequest) (*DiaryResponse, error)
	ListDiaries(context.Context, *Empty) (*ListDiariesResponse, error)

	CreateTimeCapsule(context.Context, *CreateTimeCapsuleRequest) (*TimeCapsuleResponse, error)
	GetTimeCapsule(context.Context, *IDRequest) (*TimeCapsuleResponse, error)
	ListTimeCapsules(context.Context, *Empty) (*ListTimeCapsulesResponse, error)
	ListOpenableTimeCapsules(context.Context, *Empty) (*ListTimeCapsulesResponse, error)
	OpenTimeCapsule(context.Context, *IDRequest) (*TimeCapsuleResponse, error)
	CancelTimeCapsuleNotification(context.Context, *IDRequest) (*Empty, error)

	ListScheduledNotifications(context.Context, *Empty) (*ListNotificationsResponse, error)
	ListPresentedNotifications(context.Context, *Empty) (*ListNotificationsResponse, error)
	RespondToNotification(context.Context, *RespondRequest) (*RespondResponse, error)

	ListDesigns(context.Context, *Empty) (*ListDesignsResponse, error)
	GetDesign(context.Context, *IDRequest) (*DesignResponse, error)
	CreateDesign(context.Context, *CreateDesignRequest) (*CreateDesignResponse, error)
}

// unary builds the method descriptor of a unary call.
func unary[Req, Resp any](name string, call func(JourneyServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(JourneyServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// ServiceDesc describes the Journey service to grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JourneyServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, JourneyServer.Ping),
		unary(MethodRegister, JourneyServer.Register),
		unary(MethodLogin, JourneyServer.Login),
		unary(MethodRefreshToken, JourneyServer.RefreshToken),
		unary(MethodLogout, JourneyServer.Logout),
		unary(MethodCreateDiary, JourneyServer.CreateDiary),
		unary(MethodUpdateDiary, JourneyServer.UpdateDiary),
		unary(MethodDeleteDiary, JourneyServer.DeleteDiary),
		unary(MethodGetDiary, JourneyServer.GetDiary),
		unary(MethodListDiaries, JourneyServer.ListDiaries),
		unary(MethodCreateTimeCapsule, JourneyServer.CreateTimeCapsule),
		unary(MethodGetTimeCapsule, JourneyServer.GetTimeCapsule),
		unary(MethodListTimeCapsules, JourneyServer.ListTimeCapsules),
		unary(MethodListOpenableTimeCapsules, JourneyServer.ListOpenableTimeCapsules),
		unary(MethodOpenTimeCapsule, JourneyServer.OpenTimeCapsule),
		unary(MethodCancelTimeCapsuleNotification, JourneyServer.CancelTimeCapsuleNotification),
		unary(MethodListScheduledNotifications, JourneyServer.ListScheduledNotifications),
		unary(MethodListPresentedNotifications, JourneyServer.ListPresentedNotifications),
		unary(MethodRespondToNotification, JourneyServer.RespondToNotification),
		unary(MethodListDesigns, JourneyServer.ListDesigns),
		unary(MethodGetDesign, JourneyServer.GetDesign),
		unary(MethodCreateDesign, JourneyServer.CreateDesign),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterJourneyServer registers srv on s.
func RegisterJourneyServer(s grpc.ServiceRegistrar, srv JourneyServer) {
	s.RegisterService(&ServiceDesc, srv)
}
