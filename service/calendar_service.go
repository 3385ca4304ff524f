package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tieubaoca/doc2cal/types"
)

var ErrNoCredential = errors.New("no valid calendar credential")

// CalendarService checks that a credential actually reaches the calendar API.
type CalendarService struct {
	endpoint string
	logger   *zap.Logger
}

// NewCalendarService uses the public API unless endpoint is set.
func NewCalendarService(endpoint string, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		endpoint: endpoint,
		logger:   logger.With(zap.String("module", "calendar")),
	}
}

// Describe fetches the primary calendar. The token is used as is and never refreshed.
func (s *CalendarService) Describe(ctx context.Context, cred *types.Credential) (*types.CalendarInfo, error) {
	if !cred.Valid() {
		return nil, ErrNoCredential
	}
	opts := []option.ClientOption{
		option.WithTokenSource(oauth2.StaticTokenSource(cred.OAuth2Token())),
	}
	if s.endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.endpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	cal, err := svc.Calendars.Get("primary").Context(ctx).Do()
	if err != nil {
		s.logger.Warn("Calendar probe failed", zap.Error(err))
		return nil, fmt.Errorf("get primary calendar: %w", err)
	}
	return &types.CalendarInfo{
		ID:       cal.Id,
		Summary:  cal.Summary,
		TimeZone: cal.TimeZone,
	}, nil
}
