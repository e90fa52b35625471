package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/i18n"
	"github.com/oksasatya/locshare-api/pkg/push"
)

const sweepLockKey = "notification-sweep"

// SweepService drains the pending-notification queue and escalates to a
// visible push for users who still have not reported a location. Only one
// instance in the cluster runs a sweep at a time.
type SweepService struct {
	Users   repository.UserRepository
	Pending repository.PendingNotificationRepository
	Lock    repository.SweepLock
	Push    push.Gateway
	Logger  *logrus.Logger

	LockTTL        time.Duration // also the minimum interval between sweeps
	StaleThreshold time.Duration // markers younger than this stay queued
	NotifyCooldown time.Duration // minimum gap between visible pushes per user

	Now func() time.Time
}

func NewSweepService(users repository.UserRepository, pending repository.PendingNotificationRepository, lock repository.SweepLock, gw push.Gateway, logger *logrus.Logger, lockTTL, staleThreshold, notifyCooldown time.Duration) *SweepService {
	return &SweepService{
		Users:          users,
		Pending:        pending,
		Lock:           lock,
		Push:           gw,
		Logger:         logger,
		LockTTL:        lockTTL,
		StaleThreshold: staleThreshold,
		NotifyCooldown: notifyCooldown,
		Now:            time.Now,
	}
}

// SweepReport summarizes one sweep run.
type SweepReport struct {
	Checked           int
	Sent              int
	DuplicatesDropped int
}

// RunSweep performs one sweep pass. When another instance holds the lock
// the pass is skipped and a zero report is returned. The lock is never
// released early; its TTL doubles as the minimum sweep interval.
func (s *SweepService) RunSweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	ok, err := s.Lock.Acquire(ctx, sweepLockKey, s.LockTTL)
	if err != nil {
		return report, err
	}
	if !ok {
		s.Logger.Debug("sweep lock held elsewhere, skipping")
		return report, nil
	}

	pending, err := s.Pending.TakeOlderThan(ctx, s.StaleThreshold)
	if err != nil {
		return report, err
	}
	if len(pending) == 0 {
		return report, nil
	}

	// One marker per user: the earliest-enqueued marker wins so the
	// staleness check uses the oldest request timestamp.
	seen := make(map[string]bool, len(pending))
	unique := pending[:0]
	for _, n := range pending {
		if seen[n.UserID] {
			report.DuplicatesDropped++
			continue
		}
		seen[n.UserID] = true
		unique = append(unique, n)
	}
	report.Checked = len(unique)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)
	for _, n := range unique {
		wg.Add(1)
		go func(n entity.PendingNotification) {
			defer wg.Done()
			if s.checkAndNotify(ctx, n) {
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}(n)
	}
	wg.Wait()
	report.Sent = sent

	s.Logger.WithFields(logrus.Fields{
		"checked": report.Checked,
		"sent":    report.Sent,
		"dropped": report.DuplicatesDropped,
	}).Info("notification sweep finished")
	return report, nil
}

// checkAndNotify sends a visible push for one pending marker if the user
// still qualifies. Reports whether a push went out.
func (s *SweepService) checkAndNotify(ctx context.Context, n entity.PendingNotification) bool {
	u, err := s.Users.Get(ctx, n.UserID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", n.UserID).Warn("skipping unreadable sweep target")
		return false
	}
	if !u.Activated || !u.Visibility {
		return false
	}
	// A location report after the request was made means the silent push
	// already worked.
	if u.Location.Time > n.Timestamp {
		return false
	}
	now := s.Now()
	if u.LastVisibleNotification > 0 && u.LastVisibleNotification > now.Add(-s.NotifyCooldown).UnixMilli() {
		return false
	}
	// Visible pushes go through APNs only; other platforms handle the
	// silent wake-up themselves.
	if u.PushTokens.APN == "" {
		return false
	}

	lang := i18n.VerifyLangCode(u.Language)
	if err := s.Push.SendLocalized(ctx, u.PushTokens, lang, "push.friendLocationRequest"); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("visible push failed")
		return false
	}

	u.LastVisibleNotification = now.UnixMilli()
	if err := s.Users.Put(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to stamp visible notification")
	}
	return true
}
