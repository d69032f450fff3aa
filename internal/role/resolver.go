// Package role derives a session's authorization tier from its email.
package role

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/iliyamo/studentdev-hub/internal/kvstore"
	"github.com/iliyamo/studentdev-hub/internal/model"
)

// AllowListKey is the store key holding the JSON array of admin emails.
const AllowListKey = "admin-allow-list"

var adminPattern = regexp.MustCompile(`(?i)\+admin@`)

// Resolver maps an email to a role. The only state it reads is the
// allow-list in the store.
type Resolver struct {
	store kvstore.Store
}

func NewResolver(store kvstore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns admin when the lowercased email is on the allow-list or
// when it has the form local+admin@domain (any case), user otherwise. A
// missing or unreadable allow-list counts as empty.
func (r *Resolver) Resolve(ctx context.Context, email string) model.Role {
	if email == "" {
		return model.RoleUser
	}
	lower := strings.ToLower(email)
	for _, e := range r.AllowList(ctx) {
		if e == lower {
			return model.RoleAdmin
		}
	}
	if adminPattern.MatchString(email) {
		return model.RoleAdmin
	}
	return model.RoleUser
}

// AllowList returns the stored list, or nil when absent or corrupt.
func (r *Resolver) AllowList(ctx context.Context) []string {
	raw, err := r.store.Get(ctx, AllowListKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			log.Warnf("role: read allow-list: %v", err)
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		log.Debugf("role: ignoring unparseable allow-list: %v", err)
		return nil
	}
	return list
}

// SetAllowList replaces the list. Entries are trimmed, lowercased,
// de-duplicated and sorted; blanks are dropped.
func (r *Resolver) SetAllowList(ctx context.Context, emails []string) ([]string, error) {
	seen := make(map[string]bool, len(emails))
	list := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		list = append(list, e)
	}
	sort.Strings(list)

	raw, err := json.Marshal(list)
	if err != nil {
		return nil, errors.Wrap(err, "encode allow-list")
	}
	if err := r.store.Set(ctx, AllowListKey, raw); err != nil {
		return nil, errors.Wrap(err, "store allow-list")
	}
	return list, nil
}
