// Package app implements the primary ports: the rota engine services.
package app

import (
	"context"
	"sort"

	"github.com/example/rota/internal/config"
	"github.com/example/rota/internal/ports/secondary"
)

// EligibilityResolver computes the live eligible pool for a role:
// enabled users holding the role, minus the configured exclusion set,
// sorted by user ID so rotation order is deterministic. Pure read.
type EligibilityResolver struct {
	users    secondary.UserDirectory
	excluded map[string]struct{}
}

// NewEligibilityResolver creates a resolver with the given exclusion
// set (service and admin accounts that must never receive work).
func NewEligibilityResolver(users secondary.UserDirectory, excludedIDs []string) *EligibilityResolver {
	excluded := make(map[string]struct{}, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = struct{}{}
	}
	return &EligibilityResolver{users: users, excluded: excluded}
}

// Resolve returns the ordered eligible user IDs for a role. An empty
// result is a value, never an error; callers decide how to fail.
func (r *EligibilityResolver) Resolve(ctx context.Context, role string) ([]string, error) {
	records, err := r.users.UsersWithRole(ctx, role)
	if err != nil {
		return nil, err
	}

	var eligible []string
	for _, u := range records {
		if !u.Enabled {
			continue
		}
		if _, skip := r.excluded[u.ID]; skip {
			continue
		}
		eligible = append(eligible, u.ID)
	}
	sort.Strings(eligible)
	return eligible, nil
}

// adminUsers returns the enabled users who should receive
// administrator notifications: holders of the configured admin roles
// plus the explicitly configured admin user IDs. Deduplicated, sorted.
func adminUsers(ctx context.Context, users secondary.UserDirectory, cfg *config.Settings) ([]string, error) {
	seen := make(map[string]struct{})
	for _, role := range cfg.AdminRoles {
		records, err := users.UsersWithRole(ctx, role)
		if err != nil {
			return nil, err
		}
		for _, u := range records {
			if u.Enabled {
				seen[u.ID] = struct{}{}
			}
		}
	}
	for _, id := range cfg.AdminUserIDs {
		u, err := users.GetUser(ctx, id)
		if err != nil {
			continue // configured admin may not exist in this install
		}
		if u.Enabled {
			seen[u.ID] = struct{}{}
		}
	}

	admins := make([]string, 0, len(seen))
	for id := range seen {
		admins = append(admins, id)
	}
	sort.Strings(admins)
	return admins, nil
}

// subtract returns the members of list not present in remove,
// preserving order.
func subtract(list []string, remove map[string]struct{}) []string {
	var out []string
	for _, v := range list {
		if _, ok := remove[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// toSet builds a membership set, skipping empty strings.
func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

// appendUnique appends v to list unless already present.
func appendUnique(list []string, v string) []string {
	for _, u := range list {
		if u == v {
			return list
		}
	}
	return append(list, v)
}

// sortedKeys returns the members of a set in sorted order.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
