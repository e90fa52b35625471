package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

// ProfileService covers the per-user mutations outside the permission
// graph: location reports, visibility, language, push tokens, places and
// crash reports.
type ProfileService struct {
	Users   repository.UserRepository
	Crashes repository.CrashReportRepository
	Logger  *logrus.Logger

	MaxPlaces int

	Now func() time.Time
}

func NewProfileService(users repository.UserRepository, crashes repository.CrashReportRepository, logger *logrus.Logger, maxPlaces int) *ProfileService {
	return &ProfileService{Users: users, Crashes: crashes, Logger: logger, MaxPlaces: maxPlaces, Now: time.Now}
}

type LocationInput struct {
	Lat     float64
	Lon     float64
	Acc     float64
	Battery string
}

// UpdateLocation stores a fresh position report. The report timestamp is
// assigned server-side so stale client clocks cannot push a location into
// the future.
func (s *ProfileService) UpdateLocation(ctx context.Context, u *entity.UserRecord, in LocationInput) error {
	if in.Lat < -90 || in.Lat > 90 || in.Lon < -180 || in.Lon > 180 || in.Acc < 0 {
		return fmt.Errorf("%w: invalid coordinates", ErrInvalidInput)
	}
	u.Location = entity.Location{Lat: in.Lat, Lon: in.Lon, Acc: in.Acc, Time: s.Now().UnixMilli()}
	if in.Battery != "" {
		u.Battery = in.Battery
	}
	return s.Users.Put(ctx, u)
}

func (s *ProfileService) SetVisibility(ctx context.Context, u *entity.UserRecord, visible bool) error {
	u.Visibility = visible
	return s.Users.Put(ctx, u)
}

func (s *ProfileService) SetLanguage(ctx context.Context, u *entity.UserRecord, lang string) error {
	if len(lang) < 2 || len(lang) > 10 {
		return fmt.Errorf("%w: invalid language code", ErrInvalidInput)
	}
	u.Language = lang
	return s.Users.Put(ctx, u)
}

// SetPushToken stores one platform token, replacing any previous token of
// that kind. An empty token clears the slot.
func (s *ProfileService) SetPushToken(ctx context.Context, u *entity.UserRecord, kind, token string) error {
	switch strings.ToLower(kind) {
	case "apn":
		u.PushTokens.APN = token
	case "gcm":
		u.PushTokens.GCM = token
	case "wp8":
		u.PushTokens.WP8 = token
	default:
		return fmt.Errorf("%w: unknown push token type %q", ErrInvalidInput, kind)
	}
	return s.Users.Put(ctx, u)
}

type PlaceInput struct {
	Name string
	Lat  float64
	Lon  float64
	Rad  float64
	Img  string
}

func (in PlaceInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: place name is required", ErrInvalidInput)
	}
	if in.Lat < -90 || in.Lat > 90 || in.Lon < -180 || in.Lon > 180 || in.Rad <= 0 {
		return fmt.Errorf("%w: invalid place geometry", ErrInvalidInput)
	}
	return nil
}

// AddPlace creates a place under a fresh id, enforcing the per-user cap.
func (s *ProfileService) AddPlace(ctx context.Context, u *entity.UserRecord, in PlaceInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	if len(u.Places) >= s.MaxPlaces {
		return "", fmt.Errorf("%w: at most %d places per user", ErrLimitReached, s.MaxPlaces)
	}
	if u.Places == nil {
		u.Places = make(map[string]entity.Place)
	}
	placeID := uuid.NewString()
	u.Places[placeID] = entity.Place{Name: in.Name, Lat: in.Lat, Lon: in.Lon, Rad: in.Rad, Img: in.Img}
	if err := s.Users.Put(ctx, u); err != nil {
		return "", err
	}
	return placeID, nil
}

// UpdatePlace replaces an existing place wholesale.
func (s *ProfileService) UpdatePlace(ctx context.Context, u *entity.UserRecord, placeID string, in PlaceInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	if _, ok := u.Places[placeID]; !ok {
		return fmt.Errorf("place %s: %w", placeID, repository.ErrNotFound)
	}
	u.Places[placeID] = entity.Place{Name: in.Name, Lat: in.Lat, Lon: in.Lon, Rad: in.Rad, Img: in.Img}
	return s.Users.Put(ctx, u)
}

func (s *ProfileService) RemovePlace(ctx context.Context, u *entity.UserRecord, placeID string) error {
	if _, ok := u.Places[placeID]; !ok {
		return fmt.Errorf("place %s: %w", placeID, repository.ErrNotFound)
	}
	delete(u.Places, placeID)
	return s.Users.Put(ctx, u)
}

func (s *ProfileService) Places(u *entity.UserRecord) map[string]entity.Place {
	if u.Places == nil {
		return map[string]entity.Place{}
	}
	return u.Places
}

type CrashReportInput struct {
	OSType     string
	Title      string
	Report     string
	AppVersion string
}

// StoreCrashReport persists a crash dump for later analysis.
func (s *ProfileService) StoreCrashReport(ctx context.Context, userID string, in CrashReportInput) error {
	switch in.OSType {
	case "android", "ios", "wp":
	default:
		return fmt.Errorf("%w: unknown os type %q", ErrInvalidInput, in.OSType)
	}
	if strings.TrimSpace(in.Report) == "" {
		return fmt.Errorf("%w: empty crash report", ErrInvalidInput)
	}
	r := &entity.CrashReport{
		UserID:     userID,
		OSType:     in.OSType,
		Title:      in.Title,
		Report:     in.Report,
		AppVersion: in.AppVersion,
	}
	return s.Crashes.Store(ctx, r)
}
