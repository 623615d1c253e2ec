package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/ardenspace/space3-your-journey/internal/common"
	"github.com/ardenspace/space3-your-journey/internal/netx"
	"github.com/ardenspace/space3-your-journey/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// uploadToPresignedURL is a seam for tests.
var uploadToPresignedURL = netx.UploadToPresignedURL

type Client struct {
	conn     *grpc.ClientConn
	api      *rpc.JourneyClient
	sessions *SessionStore
	lang     string

	mu      sync.Mutex
	session Session
}

// New connects to addr and restores the stored session. lang is sent as
// the preferred language of server messages.
func New(addr string, sessions *SessionStore, lang string, opts ...grpc.DialOption) (*Client, error) {
	sess, err := sessions.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	c := &Client{sessions: sessions, lang: lang, session: sess}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	opts = append(opts, grpc.WithUnaryInterceptor(c.accessTokenInterceptor))
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = rpc.NewJourneyClient(conn)
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) tokens() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(sess Session) error {
	c.mu.Lock()
	c.session = sess
	c.mu.Unlock()
	return c.sessions.Save(sess)
}

// Email is the signed-in user, or "".
func (c *Client) Email() string {
	return c.tokens().Email
}

func (c *Client) outgoing(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(rpc.AccessTokenKey, token)
	if c.lang != "" {
		md.Set(rpc.LanguageKey, c.lang)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	sess := c.tokens()

	err := invoker(c.outgoing(ctx, sess.AccessToken), method, req, reply, cc, opts...)
	if err == nil || rpc.PublicMethods[method] || sess.RefreshToken == "" {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	var pair rpc.TokenPair
	refreshErr := invoker(c.outgoing(ctx, ""), rpc.FullMethod(rpc.MethodRefreshToken),
		&rpc.RefreshTokenRequest{RefreshToken: sess.RefreshToken}, &pair, cc,
		grpc.CallContentSubtype(rpc.ContentSubtype))
	if refreshErr != nil {
		return err
	}

	sess.AccessToken = pair.AccessToken
	sess.RefreshToken = pair.RefreshToken
	if err := c.setSession(sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	return invoker(c.outgoing(ctx, sess.AccessToken), method, req, reply, cc, opts...)
}

func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.api.Ping(ctx)
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	_, err := c.api.Register(ctx, &rpc.Credentials{Email: email, Password: password})
	return mapError(err)
}

// Login signs in and stores the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	pair, err := c.api.Login(ctx, &rpc.Credentials{Email: email, Password: password})
	if err != nil {
		return mapError(err)
	}
	return c.setSession(Session{Email: email, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Logout revokes the refresh token and forgets the session. The local
// session is dropped even when the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	sess := c.tokens()

	var err error
	if sess.RefreshToken != "" {
		err = mapError(c.api.Logout(ctx, &rpc.RefreshTokenRequest{RefreshToken: sess.RefreshToken}))
	}

	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()
	if clearErr := c.sessions.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

func (c *Client) CreateDiary(ctx context.Context, d rpc.Diary) (*rpc.Diary, error) {
	resp, err := c.api.CreateDiary(ctx, &rpc.CreateDiaryRequest{Diary: d})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Diary, nil
}

func (c *Client) UpdateDiary(ctx context.Context, req *rpc.UpdateDiaryRequest) (*rpc.Diary, error) {
	resp, err := c.api.UpdateDiary(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Diary, nil
}

func (c *Client) DeleteDiary(ctx context.Context, id string) error {
	return mapError(c.api.DeleteDiary(ctx, id))
}

func (c *Client) GetDiary(ctx context.Context, id string) (*rpc.Diary, error) {
	resp, err := c.api.GetDiary(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Diary, nil
}

func (c *Client) ListDiaries(ctx context.Context) ([]*rpc.Diary, error) {
	resp, err := c.api.ListDiaries(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Diaries, nil
}

func (c *Client) CreateTimeCapsule(ctx context.Context, req *rpc.CreateTimeCapsuleRequest) (*rpc.TimeCapsule, error) {
	resp, err := c.api.CreateTimeCapsule(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.TimeCapsule, nil
}

func (c *Client) GetTimeCapsule(ctx context.Context, id string) (*rpc.TimeCapsule, error) {
	resp, err := c.api.GetTimeCapsule(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.TimeCapsule, nil
}

func (c *Client) ListTimeCapsules(ctx context.Context) ([]*rpc.TimeCapsule, error) {
	resp, err := c.api.ListTimeCapsules(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.TimeCapsules, nil
}

func (c *Client) ListOpenableTimeCapsules(ctx context.Context) ([]*rpc.TimeCapsule, error) {
	resp, err := c.api.ListOpenableTimeCapsules(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.TimeCapsules, nil
}

func (c *Client) OpenTimeCapsule(ctx context.Context, id string) (*rpc.TimeCapsule, error) {
	resp, err := c.api.OpenTimeCapsule(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.TimeCapsule, nil
}

func (c *Client) CancelTimeCapsuleNotification(ctx context.Context, id string) error {
	return mapError(c.api.CancelTimeCapsuleNotification(ctx, id))
}

func (c *Client) ListScheduledNotifications(ctx context.Context) ([]*rpc.Notification, error) {
	resp, err := c.api.ListScheduledNotifications(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Notifications, nil
}

func (c *Client) ListPresentedNotifications(ctx context.Context) ([]*rpc.Notification, error) {
	resp, err := c.api.ListPresentedNotifications(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Notifications, nil
}

// RespondToNotification taps a presented notification and returns the
// capsule it leads to, if any.
func (c *Client) RespondToNotification(ctx context.Context, id, actionID string) (string, error) {
	resp, err := c.api.RespondToNotification(ctx, &rpc.RespondRequest{ID: id, ActionID: actionID})
	if err != nil {
		return "", mapError(err)
	}
	return resp.CapsuleID, nil
}

func (c *Client) ListDesigns(ctx context.Context) ([]*rpc.Design, error) {
	resp, err := c.api.ListDesigns(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Designs, nil
}

func (c *Client) GetDesign(ctx context.Context, id string) (*rpc.Design, error) {
	resp, err := c.api.GetDesign(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Design, nil
}

// UploadDesign registers a design and uploads its images to the presigned
// URLs the server hands out. A nil thumbnail reuses the image.
func (c *Client) UploadDesign(ctx context.Context, name, category string, image, thumbnail []byte) (*rpc.Design, error) {
	resp, err := c.api.CreateDesign(ctx, &rpc.CreateDesignRequest{Name: name, Category: category})
	if err != nil {
		return nil, mapError(err)
	}

	if thumbnail == nil {
		thumbnail = image
	}
	if err := uploadToPresignedURL(ctx, resp.ImageUploadURL, "image/png", image); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	if err := uploadToPresignedURL(ctx, resp.ThumbnailUploadURL, "image/png", thumbnail); err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}
	return resp.Design, nil
}
