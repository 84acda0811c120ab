package calendar

import (
	"context"
	"fmt"
	"time"

	"slotwise/config"
	credentialRepo "slotwise/database/repository/credential"
	"slotwise/models"
	"slotwise/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	freeBusyTimeout   = 5 * time.Second
	eventWriteTimeout = 10 * time.Second
)

// GoogleCalendarAdapter implements CalendarAdapter against the Google
// Calendar API. It owns the stored OAuth credentials: expired access tokens
// are refreshed proactively and the rotated token is persisted back.
type GoogleCalendarAdapter struct {
	Credentials credentialRepo.CredentialStore
	oauth       *oauth2.Config
}

// NewGoogleCalendarAdapter creates the adapter from the configured OAuth client.
func NewGoogleCalendarAdapter(store credentialRepo.CredentialStore) *GoogleCalendarAdapter {
	return &GoogleCalendarAdapter{
		Credentials: store,
		oauth: &oauth2.Config{
			ClientID:     config.AppConfig.GoogleClientID,
			ClientSecret: config.AppConfig.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcal.CalendarEventsScope, gcal.CalendarReadonlyScope},
		},
	}
}

// service builds a Calendar API client for the host, refreshing the stored
// credential first when it is expired and refreshable.
func (a *GoogleCalendarAdapter) service(ctx context.Context, hostID string) (*gcal.Service, *models.CalendarCredential, error) {
	cred, err := a.Credentials.GetByHostID(hostID)
	if err != nil {
		return nil, nil, fmt.Errorf("no calendar credential for host %s: %w", hostID, err)
	}

	tok := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.TokenExpiry,
	}

	if cred.Expired(time.Now()) && cred.Refreshable() {
		refreshed, err := a.oauth.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, nil, fmt.Errorf("token refresh failed for host %s: %w", hostID, err)
		}
		tok = refreshed
		cred.AccessToken = refreshed.AccessToken
		if refreshed.RefreshToken != "" {
			cred.RefreshToken = refreshed.RefreshToken
		}
		cred.TokenExpiry = refreshed.Expiry
		if err := a.Credentials.Save(cred); err != nil {
			// The refreshed token still works for this request.
			utils.GetLogger().Error("failed to persist refreshed calendar credential",
				zap.String("hostID", hostID), zap.Error(err))
		}
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(tok)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build calendar client: %w", err)
	}
	return svc, cred, nil
}

// FreeBusy queries the host's calendar for busy windows within [dayStart, dayEnd).
func (a *GoogleCalendarAdapter) FreeBusy(ctx context.Context, hostID string, dayStart, dayEnd time.Time) ([]models.Interval, error) {
	ctx, cancel := context.WithTimeout(ctx, freeBusyTimeout)
	defer cancel()

	svc, cred, err := a.service(ctx, hostID)
	if err != nil {
		return nil, err
	}

	req := &gcal.FreeBusyRequest{
		TimeMin: dayStart.Format(time.RFC3339),
		TimeMax: dayEnd.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: cred.CalendarID}},
	}
	resp, err := svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed for host %s: %w", hostID, err)
	}

	calInfo, ok := resp.Calendars[cred.CalendarID]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", cred.CalendarID)
	}

	var busy []models.Interval
	for _, p := range calInfo.Busy {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, fmt.Errorf("malformed busy start %q: %w", p.Start, err)
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, fmt.Errorf("malformed busy end %q: %w", p.End, err)
		}
		busy = append(busy, models.Interval{Start: start, End: end})
	}
	return busy, nil
}

// CreateEvent creates the remote event describing a booking.
func (a *GoogleCalendarAdapter) CreateEvent(ctx context.Context, hostID string, ev Event) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()

	svc, cred, err := a.service(ctx, hostID)
	if err != nil {
		return "", err
	}

	event := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Start: &gcal.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: ev.Timezone,
		},
	}
	created, err := svc.Events.Insert(cred.CalendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("event creation failed for host %s: %w", hostID, err)
	}
	return created.Id, nil
}

// DeleteEvent removes a remote event, used when a booking is cancelled.
func (a *GoogleCalendarAdapter) DeleteEvent(ctx context.Context, hostID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()

	svc, cred, err := a.service(ctx, hostID)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(cred.CalendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("event deletion failed for host %s: %w", hostID, err)
	}
	return nil
}
