package entity

import (
	"time"

	"github.com/oksasatya/locshare-api/pkg/push"
)

// Location is the last reported position of a user. Time is unix
// milliseconds of the report; zero means no location has been reported.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Acc  float64 `json:"acc"`
	Time int64   `json:"time"`
}

// IsSet reports whether the user has ever reported a position.
func (l Location) IsSet() bool {
	return l.Time != 0
}

// OlderThan reports whether the location is older than d at the given
// reference time. An unset location is always considered stale.
func (l Location) OlderThan(now time.Time, d time.Duration) bool {
	if !l.IsSet() {
		return true
	}
	return l.Time < now.Add(-d).UnixMilli()
}

// ClientInfo is the app version/platform last seen from the client,
// refreshed opportunistically on every authorized request.
type ClientInfo struct {
	Version  string `json:"version,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// UserRecord is the aggregate root for a user. Identity is the salted
// hash of the lowercased email; records are created either as stubs by
// the invite flow (email only, not activated) or activated by signup,
// and are never deleted.
type UserRecord struct {
	ID        string `json:"userId"`
	Email     string `json:"email"`
	DeviceID  string `json:"deviceId,omitempty"` // salted hash of the raw device identifier
	AuthToken string `json:"authorizationToken,omitempty"`
	Language  string `json:"language,omitempty"`
	Activated bool   `json:"activated"`

	// AccountRecoveryMode is 0 outside recovery, otherwise the unix ms
	// timestamp at which recovery mode was entered.
	AccountRecoveryMode int64 `json:"accountRecoveryMode,omitempty"`

	Location   Location    `json:"location"`
	Visibility bool        `json:"visibility"`
	Battery    string      `json:"battery,omitempty"`
	PushTokens push.Tokens `json:"pushTokens"`

	LastVisibleNotification int64 `json:"lastVisibleNotification,omitempty"`
	LastDashboardRead       int64 `json:"lastDashboardRead,omitempty"`

	Internal ClientInfo       `json:"internalData"`
	Places   map[string]Place `json:"places,omitempty"`
}

// NewStub returns an unactivated record carrying only the email, as
// created by the invite flow.
func NewStub(id, email string) *UserRecord {
	return &UserRecord{ID: id, Email: email, Visibility: true}
}

// InRecoveryMode reports whether the record is in an unexpired recovery
// window at the given time.
func (u *UserRecord) InRecoveryMode(now time.Time, window time.Duration) bool {
	if u.AccountRecoveryMode <= 0 {
		return false
	}
	entered := u.AccountRecoveryMode
	nowMs := now.UnixMilli()
	return entered <= nowMs && entered > now.Add(-window).UnixMilli()
}

// ShareData is the subset of a user record visible to users the owner
// shares with.
type ShareData struct {
	Location   Location `json:"location"`
	Visibility bool     `json:"visibility"`
	Battery    string   `json:"battery"`
}

// Share extracts the shareable view of the record.
func (u *UserRecord) Share() ShareData {
	return ShareData{Location: u.Location, Visibility: u.Visibility, Battery: u.Battery}
}
