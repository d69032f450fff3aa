// Package identity owns the session identity: who the caller is, how that
// is persisted, and how it is scoped to a request.
package identity

import (
	"context"       // store calls are bounded by the request context
	"encoding/json" // session records are stored as JSON
	"strconv"       // formats user ids
	"strings"       // trims profile fields
	"sync"          // guards provider state
	"sync/atomic"   // monotonic user id source
	"time"          // login delays and timestamps
	"unicode"       // capitalises the derived first name
	"unicode/utf8"  // decodes the first rune of the local part

	"github.com/google/uuid"         // session ids
	"github.com/labstack/gommon/log" // leveled logger shared with echo
	"github.com/pkg/errors"          // wraps store failures

	"github.com/iliyamo/studentdev-hub/internal/clock"   // injectable time source
	"github.com/iliyamo/studentdev-hub/internal/kvstore" // session record storage
	"github.com/iliyamo/studentdev-hub/internal/model"   // user and profile types
	"github.com/iliyamo/studentdev-hub/internal/role"    // resolves admin role from the allow-list
)

// State is the lifecycle position of a Provider.
type State int

const (
	Uninitialized State = iota // nothing read yet
	Loading                    // Load is reading the record
	Authenticated              // a valid record is current
	Anonymous                  // no record, or it was discarded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	}
	return "uninitialized"
}

// SessionKeyPrefix prefixes the store key of every session record.
const SessionKeyPrefix = "session-identity:"

// SessionKey returns the store key of the record for sid.
func SessionKey(sid string) string { return SessionKeyPrefix + sid }

// Factory builds Providers that share a store, resolver and clock.
type Factory struct {
	Store kvstore.Store  // where session records live
	Roles *role.Resolver // assigns the role at login
	Clock clock.Clock    // defaults to the real clock
}

// New returns an Uninitialized provider for sessionID. An empty id means
// the caller has no session yet; one is minted on Login.
func (f *Factory) New(sessionID string) *Provider {
	c := f.Clock
	if c == nil {
		c = clock.Real()
	}
	return &Provider{store: f.Store, roles: f.Roles, clock: c, sid: sessionID}
}

// Provider holds one session's identity. Safe for concurrent use.
type Provider struct {
	store kvstore.Store
	roles *role.Resolver
	clock clock.Clock

	mu    sync.RWMutex
	sid   string      // empty until the first login
	state State       // lifecycle position
	user  *model.User // nil when anonymous
}

// Load reads the persisted record. A missing record leaves the provider
// Anonymous. A corrupt record is deleted and also yields Anonymous.
func (p *Provider) Load(ctx context.Context) State {
	p.mu.Lock()
	p.state = Loading // readers see Loading until the record is in
	sid := p.sid
	p.mu.Unlock()

	u := p.read(ctx, sid) // store I/O happens outside the lock

	p.mu.Lock()
	defer p.mu.Unlock()
	p.user = u
	if u == nil {
		p.state = Anonymous
	} else {
		p.state = Authenticated
	}
	return p.state
}

// read loads and validates the record for sid; nil means anonymous.
func (p *Provider) read(ctx context.Context, sid string) *model.User {
	if sid == "" { // no session cookie or token yet
		return nil
	}
	raw, err := p.store.Get(ctx, SessionKey(sid)) // fetch the JSON record
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warnf("identity: read session %s: %v", sid, err)
		}
		return nil
	}
	var u model.User                                                   // decoded record
	if err := json.Unmarshal(raw, &u); err != nil || !u.Role.Valid() { // unreadable JSON or unknown role
		log.Infof("identity: discarding corrupt session record %s", sid)
		if err := p.store.Delete(ctx, SessionKey(sid)); err != nil {
			log.Warnf("identity: delete corrupt session %s: %v", sid, err)
		}
		return nil
	}
	return &u
}

// Login synthesizes role, id and joinedAt for profile, persists the
// record and makes it current. Any previous session record is replaced.
// The in-memory identity is updated even when persisting fails.
func (p *Provider) Login(ctx context.Context, profile model.Profile) (model.User, error) {
	now := p.clock.Now()                      // single timestamp for id and joinedAt
	email := strings.TrimSpace(profile.Email) // role lookup uses the trimmed email
	u := model.User{
		ID:         nextID(now),
		Email:      email,
		FirstName:  strings.TrimSpace(profile.FirstName),
		LastName:   strings.TrimSpace(profile.LastName),
		University: strings.TrimSpace(profile.University),
		Role:       p.roles.Resolve(ctx, email),
		JoinedAt:   now.UTC(),
	}

	p.mu.Lock()
	if p.sid == "" { // first login on this provider
		p.sid = uuid.NewString()
	}
	sid := p.sid
	p.user = &u
	p.state = Authenticated
	p.mu.Unlock()

	raw, err := json.Marshal(u) // serialise the record
	if err != nil {
		return u, errors.Wrap(err, "encode session")
	}
	if err := p.store.Set(ctx, SessionKey(sid), raw); err != nil { // replaces any previous record
		return u, errors.Wrap(err, "persist session")
	}
	return u, nil
}

// LoginAfter waits delay and then logs in. If ctx ends first nothing is
// applied and ctx.Err() is returned.
func (p *Provider) LoginAfter(ctx context.Context, profile model.Profile, delay time.Duration) (model.User, error) {
	select {
	case <-ctx.Done():
		return model.User{}, ctx.Err()
	case <-p.clock.After(delay): // simulated authentication latency
	}
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	return p.Login(ctx, profile)
}

// Logout forgets the identity and deletes its record. Calling it again,
// or on an anonymous provider, changes nothing.
func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	sid := p.sid
	p.user = nil
	p.state = Anonymous
	p.mu.Unlock()

	if sid == "" { // never logged in
		return nil
	}
	return errors.Wrap(p.store.Delete(ctx, SessionKey(sid)), "delete session") // nil stays nil
}

// Current returns a copy of the identity and whether one is present.
func (p *Provider) Current() (model.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return model.User{}, false
	}
	return *p.user, true
}

// Caller returns the identity as the pointer the managers take; nil
// means anonymous.
func (p *Provider) Caller() *model.User {
	u, ok := p.Current()
	if !ok {
		return nil
	}
	return &u
}

// State returns the lifecycle position.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Loading reports whether Load has not finished yet.
func (p *Provider) Loading() bool {
	s := p.State()
	return s == Uninitialized || s == Loading
}

// SessionID returns the session id, empty before the first login.
func (p *Provider) SessionID() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sid
}

// ProfileFromEmail is the profile used by a plain login: the first name
// is the capitalised local part of the email ("Member" when empty).
func ProfileFromEmail(email string) model.Profile {
	email = strings.TrimSpace(email)
	local, _, _ := strings.Cut(email, "@")
	if local == "" { // "@uni.edu" or an empty email
		local = "Member"
	}
	return model.Profile{
		Email:     email,
		FirstName: capitalize(local),
	}
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

var lastID atomic.Int64 // last id handed out by nextID

// nextID returns now in unix millis, bumped past any id already issued so
// two logins in the same millisecond still differ.
func nextID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		prev := lastID.Load()
		next := ms
		if next <= prev {
			next = prev + 1
		}
		if lastID.CompareAndSwap(prev, next) {
			return strconv.FormatInt(next, 10)
		}
	}
}
