package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/reel/internal/auth/challenge"
	"github.com/aussiebroadwan/reel/internal/auth/domain"
	"github.com/aussiebroadwan/reel/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.AuthEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []domain.AuthEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.AuthEvent(nil), p.events...)
}

type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *recordingSender) SendCode(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codes == nil {
		s.codes = make(map[string]string)
	}
	s.codes[email] = code
	return nil
}

type flowFixture struct {
	flow      *FlowService
	store     *sqlite.Store
	clock     *fakeClock
	events    *recordingPublisher
	sender    *recordingSender
	directory *UserDirectory
	passkeys  *PasskeyService
	sessions  *SessionService
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()

	st := newTestStore(t)
	clock := newFakeClock()
	events := &recordingPublisher{}
	sender := &recordingSender{}

	challenges := challenge.NewMemoryStore(challenge.DefaultTTL).WithClock(clock.Now)
	t.Cleanup(func() { _ = challenges.Close() })

	directory := &UserDirectory{Store: st, Now: clock.Now}
	passkeys := &PasskeyService{Store: st, Now: clock.Now}
	sessions := &SessionService{Store: st, TTL: DefaultSessionTTL, Now: clock.Now, Events: events}

	return &flowFixture{
		flow: &FlowService{
			Challenges: challenges,
			Directory:  directory,
			Validator:  &CredentialValidator{Store: st},
			Passkeys:   passkeys,
			Sessions:   sessions,
			CodeSender: sender,
			RP:         RelyingParty{ID: "localhost", Name: "Reel"},
		},
		store:     st,
		clock:     clock,
		events:    events,
		sender:    sender,
		directory: directory,
		passkeys:  passkeys,
		sessions:  sessions,
	}
}

// registrationJSON builds a navigator.credentials.create() style payload.
func registrationJSON(credentialID string) []byte {
	return []byte(`{
		"id": "` + credentialID + `",
		"rawId": "` + credentialID + `",
		"type": "public-key",
		"response": {
			"clientDataJSON": "eyJ0eXBlIjoid2ViYXV0aG4uY3JlYXRlIn0",
			"attestationObject": "o2NmbXRkbm9uZQ",
			"transports": ["internal", "hybrid"]
		}
	}`)
}

// assertionJSON builds a navigator.credentials.get() style payload. An empty
// userHandle is sent as null.
func assertionJSON(credentialID, userHandle string) []byte {
	uh := `null`
	if userHandle != "" {
		uh = `"` + userHandle + `"`
	}
	return []byte(`{
		"id": "` + credentialID + `",
		"rawId": "` + credentialID + `",
		"type": "public-key",
		"response": {
			"clientDataJSON": "eyJ0eXBlIjoid2ViYXV0aG4uZ2V0In0",
			"authenticatorData": "SZYN5YgOjGh0NBcPZHZgW4_krrmihjLHmVzzuoMdl2MFAAAAAQ",
			"signature": "MEUCIQ",
			"userHandle": ` + uh + `
		}
	}`)
}
