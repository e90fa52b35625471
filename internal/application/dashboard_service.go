package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
)

// DashboardService aggregates everything a client renders on its main
// screen: the viewer's own state, the live share data of everyone they
// may see, and an id-to-email mapping covering both graph directions.
type DashboardService struct {
	Users   repository.UserRepository
	Sharing repository.SharingRepository
	Logger  *logrus.Logger

	Now func() time.Time
}

func NewDashboardService(users repository.UserRepository, sharing repository.SharingRepository, logger *logrus.Logger) *DashboardService {
	return &DashboardService{Users: users, Sharing: sharing, Logger: logger, Now: time.Now}
}

type Dashboard struct {
	Location   entity.Location             `json:"location"`
	Visibility bool                        `json:"visibility"`
	Battery    string                      `json:"battery"`
	ICanSee    map[string]entity.ShareData `json:"icansee"`
	CanSeeMe   []string                    `json:"canseeme"`
	IDMapping  map[string]string           `json:"idmapping"`
}

// Build assembles the dashboard for a user. Peers whose records cannot be
// loaded are silently dropped so one bad record never blanks the screen.
// The dashboard-read timestamp is stamped best-effort on the way out.
func (s *DashboardService) Build(ctx context.Context, u *entity.UserRecord) (*Dashboard, error) {
	share, err := s.Sharing.Get(ctx, u.ID)
	if errors.Is(err, repository.ErrNotFound) {
		share = entity.NewSharingRecord(u.ID)
		if err := s.Sharing.Put(ctx, share); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Location:   u.Location,
		Visibility: u.Visibility,
		Battery:    u.Battery,
		ICanSee:    make(map[string]entity.ShareData, len(share.ICanSee)),
		CanSeeMe:   share.CanSeeMe,
		IDMapping:  make(map[string]string),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, peerID := range share.ICanSee {
		wg.Add(1)
		go func(peerID string) {
			defer wg.Done()
			peer, err := s.Users.Get(ctx, peerID)
			if err != nil {
				s.Logger.WithError(err).WithField("user_id", peerID).Warn("dropping unreadable dashboard peer")
				return
			}
			mu.Lock()
			d.ICanSee[peerID] = peer.Share()
			mu.Unlock()
		}(peerID)
	}
	wg.Wait()

	// The mapping covers both directions plus the viewer; ids that resolve
	// to nothing are simply absent.
	mappingIDs := append(share.Union(), u.ID)
	for _, id := range mappingIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			peer, err := s.Users.Get(ctx, id)
			if err != nil {
				return
			}
			mu.Lock()
			d.IDMapping[id] = peer.Email
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	u.LastDashboardRead = s.Now().UnixMilli()
	if err := s.Users.Put(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to stamp dashboard read")
	}
	return d, nil
}
