package models

import "time"

// CalendarCredential is the stored OAuth credential for a host's external
// calendar. It is owned by the calendar adapter; the booking engine only
// passes it through and never inspects token contents.
type CalendarCredential struct {
	HostID       string    `bson:"host_id" json:"hostId"`
	CalendarID   string    `bson:"calendar_id" json:"calendarId"` // e.g. "primary"
	AccessToken  string    `bson:"access_token" json:"-"`
	RefreshToken string    `bson:"refresh_token" json:"-"`
	TokenExpiry  time.Time `bson:"token_expiry" json:"tokenExpiry"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Refreshable reports whether the credential can be refreshed when expired.
func (c *CalendarCredential) Refreshable() bool {
	return c.RefreshToken != ""
}

// Expired reports whether the access token has passed its expiry, with a small
// margin so a token about to lapse mid-request is refreshed proactively.
func (c *CalendarCredential) Expired(now time.Time) bool {
	if c.TokenExpiry.IsZero() {
		return false
	}
	return now.After(c.TokenExpiry.Add(-time.Minute))
}
