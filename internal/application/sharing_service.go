package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/helpers"
	"github.com/oksasatya/locshare-api/pkg/push"
)

// SharingService owns the bidirectional permission graph, including the
// invite-a-stranger flow and the silent location poll.
type SharingService struct {
	Users   repository.UserRepository
	Sharing repository.SharingRepository
	Pending repository.PendingNotificationRepository
	Mail    EmailSender
	Push    push.Gateway
	Logger  *logrus.Logger

	Salt            string
	LocationTimeout time.Duration // location older than this triggers a silent poll

	Now func() time.Time
}

func NewSharingService(users repository.UserRepository, sharing repository.SharingRepository, pending repository.PendingNotificationRepository, mail EmailSender, gw push.Gateway, logger *logrus.Logger, salt string, locationTimeout time.Duration) *SharingService {
	return &SharingService{
		Users:           users,
		Sharing:         sharing,
		Pending:         pending,
		Mail:            mail,
		Push:            gw,
		Logger:          logger,
		Salt:            salt,
		LocationTimeout: locationTimeout,
		Now:             time.Now,
	}
}

// AllowToSee grants every listed email the right to view the owner's
// location. Targets are processed concurrently; the operation as a whole
// succeeds only when every target succeeds. Unknown targets get a stub
// record and an invite email.
func (s *SharingService) AllowToSee(ctx context.Context, owner *entity.UserRecord, targetEmails []string) error {
	if len(targetEmails) == 0 {
		return fmt.Errorf("%w: at least one email required", ErrInvalidInput)
	}
	ownerShare, err := s.Sharing.Get(ctx, owner.ID)
	if err != nil {
		return err
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex // guards ownerShare across target goroutines
		failCount int
	)
	for _, email := range targetEmails {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			if err := s.allowOne(ctx, owner, ownerShare, &mu, email); err != nil {
				s.Logger.WithError(err).WithField("owner_id", owner.ID).Warn("allow target failed")
				mu.Lock()
				failCount++
				mu.Unlock()
			}
		}(email)
	}
	wg.Wait()

	if failCount > 0 {
		return fmt.Errorf("%w: failed to allow %d of %d targets", ErrPartialFanout, failCount, len(targetEmails))
	}
	return nil
}

func (s *SharingService) allowOne(ctx context.Context, owner *entity.UserRecord, ownerShare *entity.SharingRecord, mu *sync.Mutex, targetEmail string) error {
	addr, err := mail.ParseAddress(targetEmail)
	if err != nil || addr.Address != targetEmail {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	cleanEmail := strings.ToLower(targetEmail)
	targetID := helpers.SaltedID(s.Salt, cleanEmail)
	if targetID == owner.ID {
		return fmt.Errorf("%w: cannot share with yourself", ErrInvalidInput)
	}

	targetShare, err := s.Sharing.Get(ctx, targetID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		targetShare = entity.NewSharingRecord(targetID)
		if _, uerr := s.Users.Get(ctx, targetID); errors.Is(uerr, repository.ErrNotFound) {
			// Unknown target: create a stub account carrying only the
			// email and invite them. The stub may race with a concurrent
			// invite for the same address; the later write wins.
			stub := entity.NewStub(targetID, cleanEmail)
			if err := s.Users.Put(ctx, stub); err != nil {
				return err
			}
			s.Mail.SendInvite(ctx, cleanEmail, owner.Email, owner.Language)
		} else if uerr != nil {
			return uerr
		}
	case err != nil:
		return err
	}

	// Two-step, non-transactional graph write. A failure on the first
	// step aborts before the second; a failure on the second leaves the
	// graph asymmetric and is not repaired here.
	mu.Lock()
	ownerShare.AllowOther(targetID)
	err = s.Sharing.Put(ctx, ownerShare)
	mu.Unlock()
	if err != nil {
		return err
	}

	targetShare.AddICanSee(owner.ID)
	return s.Sharing.Put(ctx, targetShare)
}

// DenyToSee revokes the target's right to view the owner's location,
// removing both edges with the same two-step write as AllowToSee.
func (s *SharingService) DenyToSee(ctx context.Context, ownerID, targetID string) error {
	ownerShare, err := s.Sharing.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	targetShare, err := s.Sharing.Get(ctx, targetID)
	if err != nil {
		return err
	}

	ownerShare.DenyOther(targetID)
	if err := s.Sharing.Put(ctx, ownerShare); err != nil {
		return err
	}

	targetShare.RemoveICanSee(ownerID)
	return s.Sharing.Put(ctx, targetShare)
}

// RequestLocationUpdates pings everyone the user may see: targets whose
// stored location has gone stale get a silent wake-up push and a pending
// notification for the sweep to follow up on. Per-target failures are
// absorbed; the call succeeds once the fan-out completes.
func (s *SharingService) RequestLocationUpdates(ctx context.Context, userID string) error {
	share, err := s.Sharing.Get(ctx, userID)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, targetID := range share.ICanSee {
		wg.Add(1)
		go func(targetID string) {
			defer wg.Done()
			s.pollOne(ctx, targetID)
		}(targetID)
	}
	wg.Wait()
	return nil
}

func (s *SharingService) pollOne(ctx context.Context, targetID string) {
	target, err := s.Users.Get(ctx, targetID)
	if err != nil {
		return
	}
	if !target.Visibility {
		return
	}
	now := s.Now()
	if !target.Location.OlderThan(now, s.LocationTimeout) {
		return
	}
	if err := s.Push.SendSilent(ctx, target.PushTokens, "locationRequest"); err != nil {
		s.Logger.WithError(err).WithField("user_id", targetID).Warn("silent push failed")
	}
	n := entity.PendingNotification{UserID: targetID, Timestamp: now.UnixMilli()}
	if err := s.Pending.Enqueue(ctx, n); err != nil {
		s.Logger.WithError(err).WithField("user_id", targetID).Warn("failed to enqueue pending notification")
	}
}
