package grpc

import (
	"context"
	"fmt"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/server/scheduler"
	"github.com/ardenspace/space3-your-journey/internal/timex"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.Empty) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.Credentials) (*rpc.RegisterResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.svc.Users.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &rpc.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.Credentials) (*rpc.TokenPair, error) {
	tokens, err := s.svc.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.TokenPair, error) {
	tokens, err := s.svc.Users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TokenPair{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.Empty, error) {
	if err := s.svc.Users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) CreateDiary(ctx context.Context, req *rpc.CreateDiaryRequest) (*rpc.DiaryResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.svc.Diaries.Create(ctx, userID, diaryFromRPC(&req.Diary))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DiaryResponse{Diary: diaryToRPC(d)}, nil
}

func (s *GRPCServer) UpdateDiary(ctx context.Context, req *rpc.UpdateDiaryRequest) (*rpc.DiaryResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.svc.Diaries.Update(ctx, userID, req.ID, patchFromRPC(req))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DiaryResponse{Diary: diaryToRPC(d)}, nil
}

// DeleteDiary also removes the entry's time capsule and its notification.
func (s *GRPCServer) DeleteDiary(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.svc.TimeCapsules.DeleteDiary(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetDiary(ctx context.Context, req *rpc.IDRequest) (*rpc.DiaryResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.svc.Diaries.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DiaryResponse{Diary: diaryToRPC(d)}, nil
}

func (s *GRPCServer) ListDiaries(ctx context.Context, req *rpc.Empty) (*rpc.ListDiariesResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.Diaries.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*rpc.Diary, 0, len(list))
	for _, d := range list {
		out = append(out, diaryToRPC(d))
	}
	return &rpc.ListDiariesResponse{Diaries: out}, nil
}

func (s *GRPCServer) CreateTimeCapsule(ctx context.Context, req *rpc.CreateTimeCapsuleRequest) (*rpc.TimeCapsuleResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	openDate := req.OpenDate
	if openDate.IsZero() {
		openDate, err = timex.ResolveOpenDate(req.Option, s.now())
		if err != nil {
			return nil, s.toStatus(ctx, fmt.Errorf("%w: %v", common.ErrInvalidOpenDate, err))
		}
	}

	tc, err := s.svc.TimeCapsules.Create(ctx, userID, req.DiaryID, openDate, req.Title)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Time capsule created", "capsule_id", tc.ID, "open_date", tc.OpenDate)
	return &rpc.TimeCapsuleResponse{TimeCapsule: capsuleToRPC(tc)}, nil
}

func (s *GRPCServer) GetTimeCapsule(ctx context.Context, req *rpc.IDRequest) (*rpc.TimeCapsuleResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	tc, err := s.svc.TimeCapsules.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TimeCapsuleResponse{TimeCapsule: capsuleToRPC(tc)}, nil
}

func (s *GRPCServer) ListTimeCapsules(ctx context.Context, req *rpc.Empty) (*rpc.ListTimeCapsulesResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.TimeCapsules.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ListTimeCapsulesResponse{TimeCapsules: capsulesToRPC(list)}, nil
}

func (s *GRPCServer) ListOpenableTimeCapsules(ctx context.Context, req *rpc.Empty) (*rpc.ListTimeCapsulesResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.TimeCapsules.ListOpenable(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ListTimeCapsulesResponse{TimeCapsules: capsulesToRPC(list)}, nil
}

func (s *GRPCServer) OpenTimeCapsule(ctx context.Context, req *rpc.IDRequest) (*rpc.TimeCapsuleResponse, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	tc, err := s.svc.TimeCapsules.Open(ctx, userID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TimeCapsuleResponse{TimeCapsule: capsuleToRPC(tc)}, nil
}

func (s *GRPCServer) CancelTimeCapsuleNotification(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.svc.TimeCapsules.CancelNotification(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

// ListScheduledNotifications lists the caller's pending time capsule
// notifications.
func (s *GRPCServer) ListScheduledNotifications(ctx context.Context, req *rpc.Empty) (*rpc.ListNotificationsResponse, error) {
	owned, err := s.ownedCapsules(ctx)
	if err != nil {
		return nil, err
	}

	scheduled, err := s.svc.Notifications.ListScheduled(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*rpc.Notification, 0, len(scheduled))
	for _, req := range scheduled {
		if scheduler.IsTimeCapsule(req) && owned[req.Content.Data[scheduler.DataCapsuleID]] {
			out = append(out, requestToRPC(req))
		}
	}
	return &rpc.ListNotificationsResponse{Notifications: out}, nil
}

// ListPresentedNotifications lists the caller's delivered notifications
// that can still be tapped, newest first.
func (s *GRPCServer) ListPresentedNotifications(ctx context.Context, req *rpc.Empty) (*rpc.ListNotificationsResponse, error) {
	owned, err := s.ownedCapsules(ctx)
	if err != nil {
		return nil, err
	}

	presented := s.svc.Notifications.Presented(ctx)
	out := make([]*rpc.Notification, 0, len(presented))
	for _, n := range presented {
		if !scheduler.IsTimeCapsule(n.Request) || !owned[n.Request.Content.Data[scheduler.DataCapsuleID]] {
			continue
		}
		item := requestToRPC(n.Request)
		delivered := n.DeliveredAt
		item.DeliveredAt = &delivered
		out = append(out, item)
	}
	return &rpc.ListNotificationsResponse{Notifications: out}, nil
}

// RespondToNotification taps a presented notification and returns the
// capsule to navigate to.
func (s *GRPCServer) RespondToNotification(ctx context.Context, req *rpc.RespondRequest) (*rpc.RespondResponse, error) {
	owned, err := s.ownedCapsules(ctx)
	if err != nil {
		return nil, err
	}

	for _, n := range s.svc.Notifications.Presented(ctx) {
		if n.Request.ID != req.ID {
			continue
		}
		if !owned[n.Request.Content.Data[scheduler.DataCapsuleID]] {
			break
		}

		resp, err := s.svc.Notifications.Respond(ctx, req.ID, req.ActionID)
		if err != nil {
			return nil, s.toStatus(ctx, err)
		}
		out := &rpc.RespondResponse{}
		if scheduler.IsTimeCapsule(resp.Notification.Request) {
			out.CapsuleID = resp.Notification.Request.Content.Data[scheduler.DataCapsuleID]
		}
		return out, nil
	}
	return nil, status.Error(codes.NotFound, "notification is not presented")
}

// ownedCapsules returns the ids of the caller's capsules.
func (s *GRPCServer) ownedCapsules(ctx context.Context) (map[string]bool, error) {
	userID, err := userIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.svc.TimeCapsules.List(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	owned := make(map[string]bool, len(list))
	for _, tc := range list {
		owned[tc.ID] = true
	}
	return owned, nil
}

func (s *GRPCServer) ListDesigns(ctx context.Context, req *rpc.Empty) (*rpc.ListDesignsResponse, error) {
	list, err := s.svc.Designs.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*rpc.Design, 0, len(list))
	for _, d := range list {
		out = append(out, designToRPC(d))
	}
	return &rpc.ListDesignsResponse{Designs: out}, nil
}

func (s *GRPCServer) GetDesign(ctx context.Context, req *rpc.IDRequest) (*rpc.DesignResponse, error) {
	d, err := s.svc.Designs.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DesignResponse{Design: designToRPC(d)}, nil
}

func (s *GRPCServer) CreateDesign(ctx context.Context, req *rpc.CreateDesignRequest) (*rpc.CreateDesignResponse, error) {
	up, err := s.svc.Designs.PresignUpload(ctx, req.Name, req.Category)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.CreateDesignResponse{
		Design:             designToRPC(up.Design),
		ImageUploadURL:     up.ImageUploadURL,
		ThumbnailUploadURL: up.ThumbnailUploadURL,
	}, nil
}
