// Package rotation contains the pure round-robin selection logic.
// Functions here evaluate rotation state without side effects; the
// tracker service owns persistence and locking.
package rotation

import "sort"

// SameSet reports whether a and b contain the same members, ignoring
// order and duplicates.
func SameSet(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, v := range a {
		as[v] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, v := range b {
		bs[v] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for v := range as {
		if _, ok := bs[v]; !ok {
			return false
		}
	}
	return true
}

// Reconcile compares the stored roster snapshot against the live
// eligible list. When the membership is unchanged the stored ordering
// and position are kept. When it drifted the live ordering is adopted
// and the position is clamped to the nearest valid index, preserving
// rotation progress instead of resetting to zero.
func Reconcile(stored []string, position int, live []string) ([]string, int) {
	if len(live) == 0 {
		return nil, 0
	}
	if SameSet(stored, live) {
		if position < 0 || position >= len(stored) {
			position = 0
		}
		return stored, position
	}
	if position > len(live)-1 {
		position = len(live) - 1
	}
	if position < 0 {
		position = 0
	}
	return live, position
}

// Next returns the user at the current position and the advanced
// position. The roster must be non-empty.
func Next(roster []string, position int) (string, int) {
	if position < 0 || position >= len(roster) {
		position = 0
	}
	return roster[position], (position + 1) % len(roster)
}

// IndexOf returns the index of user in roster, or -1.
func IndexOf(roster []string, user string) int {
	for i, u := range roster {
		if u == user {
			return i
		}
	}
	return -1
}

// OrderBy returns the members of subset ordered by their position in
// roster. Members absent from roster are appended at the end in sorted
// order so the result is deterministic.
func OrderBy(roster, subset []string) []string {
	in := make(map[string]struct{}, len(subset))
	for _, u := range subset {
		in[u] = struct{}{}
	}
	ordered := make([]string, 0, len(subset))
	for _, u := range roster {
		if _, ok := in[u]; ok {
			ordered = append(ordered, u)
			delete(in, u)
		}
	}
	rest := make([]string, 0, len(in))
	for u := range in {
		rest = append(rest, u)
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// NextFromSubset picks the next user constrained to subset, re-deriving
// the start point from lastAssigned rather than the global position so
// per-item exclusions do not scramble the role-wide rotation memory.
// The returned position is the global position the tracker should store:
// one past the chosen user's roster slot when the user is on the roster,
// otherwise the position unchanged.
func NextFromSubset(roster []string, position int, lastAssigned string, subset []string) (string, int) {
	if len(subset) == 0 {
		return "", position
	}
	ordered := OrderBy(roster, subset)

	var candidate string
	if i := IndexOf(ordered, lastAssigned); i >= 0 {
		candidate = ordered[(i+1)%len(ordered)]
	} else {
		// Last assigned user is excluded for this item (or unknown):
		// fall back to the first allowed user at or after the global
		// pointer, wrapping.
		candidate = ordered[0]
		for off := 0; off < len(roster); off++ {
			u := roster[(position+off)%len(roster)]
			if IndexOf(ordered, u) >= 0 {
				candidate = u
				break
			}
		}
	}

	if ri := IndexOf(roster, candidate); ri >= 0 {
		return candidate, (ri + 1) % len(roster)
	}
	return candidate, position
}
