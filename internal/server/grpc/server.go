// Package grpc exposes the journey services over gRPC with the JSON codec.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"github.com/ardenspace/space3-your-journey/internal/server/facility"
	"github.com/ardenspace/space3-your-journey/internal/server/models"
	"github.com/ardenspace/space3-your-journey/internal/server/services"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type DiaryService interface {
	Create(ctx context.Context, userID string, d *models.Diary) (*models.Diary, error)
	Update(ctx context.Context, userID, id string, patch models.DiaryPatch) (*models.Diary, error)
	Get(ctx context.Context, userID, id string) (*models.Diary, error)
	List(ctx context.Context, userID string) ([]*models.Diary, error)
}

type TimeCapsuleService interface {
	Create(ctx context.Context, userID, diaryID string, openDate time.Time, title string) (*models.TimeCapsule, error)
	Get(ctx context.Context, userID, id string) (*models.TimeCapsule, error)
	List(ctx context.Context, userID string) ([]*models.TimeCapsule, error)
	ListOpenable(ctx context.Context, userID string) ([]*models.TimeCapsule, error)
	Open(ctx context.Context, userID, id string) (*models.TimeCapsule, error)
	CancelNotification(ctx context.Context, userID, id string) error
	DeleteDiary(ctx context.Context, userID, diaryID string) error
}

type DesignService interface {
	List(ctx context.Context) ([]*models.NotebookDesign, error)
	Get(ctx context.Context, id string) (*models.NotebookDesign, error)
	PresignUpload(ctx context.Context, name, category string) (*services.DesignUpload, error)
}

// Notifications is the device notification view offered to clients.
type Notifications interface {
	ListScheduled(ctx context.Context) ([]facility.Request, error)
	Presented(ctx context.Context) []facility.Notification
	Respond(ctx context.Context, id, actionID string) (facility.Response, error)
}

// Services bundles what the server dispatches to.
type Services struct {
	Users         UserService
	Diaries       DiaryService
	TimeCapsules  TimeCapsuleService
	Designs       DesignService
	Notifications Notifications
}

// supportedLanguages are the languages of user-facing error messages; the
// first one is the fallback.
var supportedLanguages = []language.Tag{language.English, language.Korean}

type GRPCServer struct {
	address   string
	svc       Services
	logger    logging.Logger
	jwtSecret []byte
	lang      language.Tag
	matcher   language.Matcher
	now       func() time.Time
}

var _ rpc.JourneyServer = (*GRPCServer)(nil)

// NewGRPCServer returns a server listening on address. lang is used for
// messages when a caller states no language preference.
func NewGRPCServer(address string, l logging.Logger, svc Services, secretKey string, lang language.Tag) *GRPCServer {
	if l == nil {
		l = logging.Nop()
	}
	return &GRPCServer{
		address:   address,
		svc:       svc,
		logger:    l.With("module", "grpc_server"),
		jwtSecret: []byte(secretKey),
		lang:      lang,
		matcher:   language.NewMatcher(supportedLanguages),
		now:       time.Now,
	}
}

// NewServer builds the grpc.Server with the auth interceptor and the
// Journey service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.languageInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	rpc.RegisterJourneyServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
