package facility

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ardenspace/space3-your-journey/internal/logging"
	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	"github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// Sender presents a fired notification to the user.
type Sender interface {
	Send(ctx context.Context, title, body string) error
}

// ShoutrrrSender presents notifications through shoutrrr service URLs.
type ShoutrrrSender struct {
	router *router.ServiceRouter
}

// NewShoutrrrSender builds one sender for all urls. A positive timeout
// bounds each delivery.
func NewShoutrrrSender(urls []string, timeout time.Duration, logger *log.Logger) (*ShoutrrrSender, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one notification URL is required")
	}

	r, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("create notification sender: %w", err)
	}
	if timeout > 0 {
		r.Timeout = timeout
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r.SetLogger(logger)

	return &ShoutrrrSender{router: r}, nil
}

// Send delivers to every configured service and reports the first failure.
func (s *ShoutrrrSender) Send(_ context.Context, title, body string) error {
	params := types.Params{}
	if title != "" {
		params.SetTitle(title)
	}

	for _, err := range s.router.Send(body, &params) {
		if err != nil {
			return fmt.Errorf("deliver notification: %w", err)
		}
	}
	return nil
}

// LogSender presents notifications as log lines.
type LogSender struct {
	Log logging.Logger
}

func (s LogSender) Send(ctx context.Context, title, body string) error {
	s.Log.Info(ctx, "notification presented", "title", title, "body", body)
	return nil
}
