package application

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/locshare-api/internal/domain/entity"
	"github.com/oksasatya/locshare-api/internal/domain/repository"
	"github.com/oksasatya/locshare-api/pkg/push"
)

// In-memory repository fakes. All are mutex-guarded because the services
// under test fan out goroutines.

type memUsers struct {
	mu     sync.Mutex
	recs   map[string]entity.UserRecord
	getErr map[string]error
	putErr map[string]error
	putLog []string
}

func newMemUsers() *memUsers {
	return &memUsers{
		recs:   make(map[string]entity.UserRecord),
		getErr: make(map[string]error),
		putErr: make(map[string]error),
	}
}

func (m *memUsers) Get(_ context.Context, userID string) (*entity.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[userID]; err != nil {
		return nil, err
	}
	rec, ok := m.recs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := rec
	return &cp, nil
}

func (m *memUsers) Put(_ context.Context, u *entity.UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.putErr[u.ID]; err != nil {
		return err
	}
	m.recs[u.ID] = *u
	m.putLog = append(m.putLog, u.ID)
	return nil
}

func (m *memUsers) stored(userID string) entity.UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs[userID]
}

type memSharing struct {
	mu     sync.Mutex
	recs   map[string]entity.SharingRecord
	getErr map[string]error
	putErr map[string]error
}

func newMemSharing() *memSharing {
	return &memSharing{
		recs:   make(map[string]entity.SharingRecord),
		getErr: make(map[string]error),
		putErr: make(map[string]error),
	}
}

func (m *memSharing) Get(_ context.Context, userID string) (*entity.SharingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.getErr[userID]; err != nil {
		return nil, err
	}
	rec, ok := m.recs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := rec
	cp.ICanSee = append([]string(nil), rec.ICanSee...)
	cp.CanSeeMe = append([]string(nil), rec.CanSeeMe...)
	return &cp, nil
}

func (m *memSharing) Put(_ context.Context, rec *entity.SharingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.putErr[rec.UserID]; err != nil {
		return err
	}
	cp := *rec
	cp.ICanSee = append([]string(nil), rec.ICanSee...)
	cp.CanSeeMe = append([]string(nil), rec.CanSeeMe...)
	m.recs[rec.UserID] = cp
	return nil
}

func (m *memSharing) stored(userID string) entity.SharingRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs[userID]
}

type memResets struct {
	mu    sync.Mutex
	codes map[string]entity.ResetCode
	next  int
}

func newMemResets() *memResets {
	return &memResets{codes: make(map[string]entity.ResetCode)}
}

func (m *memResets) Create(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := "reset-" + strconv.Itoa(m.next)
	m.codes[id] = entity.ResetCode{UserID: userID, Code: "code"}
	return id, nil
}

func (m *memResets) Resolve(_ context.Context, resetID string) (*entity.ResetCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	code, ok := m.codes[resetID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &code, nil
}

func (m *memResets) Delete(_ context.Context, resetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[resetID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.codes, resetID)
	return nil
}

type sentMail struct {
	To, Inviter, ResetLink, Lang string
}

type memMailer struct {
	mu      sync.Mutex
	signups []sentMail
	invites []sentMail
	resets  []sentMail
}

func (m *memMailer) SendSignup(_ context.Context, to, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signups = append(m.signups, sentMail{To: to, Lang: lang})
}

func (m *memMailer) SendInvite(_ context.Context, to, inviter, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, sentMail{To: to, Inviter: inviter, Lang: lang})
}

func (m *memMailer) SendReset(_ context.Context, to, resetLink, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, sentMail{To: to, ResetLink: resetLink, Lang: lang})
}

type memPending struct {
	mu    sync.Mutex
	queue []entity.PendingNotification
}

func (m *memPending) Enqueue(_ context.Context, n entity.PendingNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, n)
	return nil
}

func (m *memPending) TakeOlderThan(_ context.Context, _ time.Duration) ([]entity.PendingNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queue
	m.queue = nil
	return out, nil
}

type memLock struct {
	mu   sync.Mutex
	held bool
}

func (m *memLock) Acquire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held {
		return false, nil
	}
	m.held = true
	return true, nil
}

type sentPush struct {
	Tokens    push.Tokens
	Lang, Key string
	Event     string
}

type memGateway struct {
	mu      sync.Mutex
	visible []sentPush
	silent  []sentPush
}

func (g *memGateway) SendLocalized(_ context.Context, tokens push.Tokens, lang, messageKey string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.visible = append(g.visible, sentPush{Tokens: tokens, Lang: lang, Key: messageKey})
	return nil
}

func (g *memGateway) SendSilent(_ context.Context, tokens push.Tokens, event string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.silent = append(g.silent, sentPush{Tokens: tokens, Event: event})
	return nil
}

type memCrashes struct {
	mu      sync.Mutex
	reports []entity.CrashReport
}

func (m *memCrashes) Store(_ context.Context, r *entity.CrashReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = append(m.reports, *r)
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}
