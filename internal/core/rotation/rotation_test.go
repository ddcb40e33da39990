package rotation

import (
	"reflect"
	"testing"
)

func TestSameSet(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want bool
	}{
		{"equal in order", []string{"a", "b"}, []string{"a", "b"}, true},
		{"equal out of order", []string{"a", "b", "c"}, []string{"c", "a", "b"}, true},
		{"different members", []string{"a", "b"}, []string{"a", "c"}, false},
		{"subset", []string{"a", "b"}, []string{"a"}, false},
		{"both empty", nil, []string{}, true},
		{"duplicates ignored", []string{"a", "a", "b"}, []string{"b", "a"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameSet(tt.a, tt.b); got != tt.want {
				t.Errorf("SameSet(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	t.Run("unchanged roster keeps stored order and position", func(t *testing.T) {
		roster, pos := Reconcile([]string{"b", "a", "c"}, 2, []string{"a", "b", "c"})
		if !reflect.DeepEqual(roster, []string{"b", "a", "c"}) {
			t.Errorf("roster = %v, want stored ordering", roster)
		}
		if pos != 2 {
			t.Errorf("position = %d, want 2", pos)
		}
	})

	t.Run("user added preserves position", func(t *testing.T) {
		roster, pos := Reconcile([]string{"a", "b"}, 1, []string{"a", "b", "c"})
		if !reflect.DeepEqual(roster, []string{"a", "b", "c"}) {
			t.Errorf("roster = %v, want live ordering", roster)
		}
		if pos != 1 {
			t.Errorf("position = %d, want 1 (not reset to 0)", pos)
		}
	})

	t.Run("user removed clamps position to last index", func(t *testing.T) {
		roster, pos := Reconcile([]string{"a", "b", "c"}, 2, []string{"a", "b"})
		if !reflect.DeepEqual(roster, []string{"a", "b"}) {
			t.Errorf("roster = %v, want live list", roster)
		}
		if pos != 1 {
			t.Errorf("position = %d, want clamped 1", pos)
		}
	})

	t.Run("empty live list", func(t *testing.T) {
		roster, pos := Reconcile([]string{"a"}, 0, nil)
		if roster != nil || pos != 0 {
			t.Errorf("got (%v, %d), want (nil, 0)", roster, pos)
		}
	})

	t.Run("out of range stored position resets", func(t *testing.T) {
		_, pos := Reconcile([]string{"a", "b"}, 5, []string{"a", "b"})
		if pos != 0 {
			t.Errorf("position = %d, want 0", pos)
		}
	})
}

func TestNext_RotationFairness(t *testing.T) {
	// N consecutive calls over a stable roster of N users must yield
	// each user exactly once, in list order from the starting position.
	roster := []string{"a", "b", "c", "d"}
	pos := 2
	var got []string
	for range roster {
		var user string
		user, pos = Next(roster, pos)
		got = append(got, user)
	}
	want := []string{"c", "d", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rotation order = %v, want %v", got, want)
	}
	if pos != 2 {
		t.Errorf("position after full pass = %d, want 2", pos)
	}
}

func TestOrderBy(t *testing.T) {
	roster := []string{"a", "b", "c", "d"}
	got := OrderBy(roster, []string{"d", "b"})
	if !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("OrderBy = %v, want [b d]", got)
	}

	// Members not on the roster sort to the end deterministically.
	got = OrderBy(roster, []string{"z", "c", "x"})
	if !reflect.DeepEqual(got, []string{"c", "x", "z"}) {
		t.Errorf("OrderBy = %v, want [c x z]", got)
	}
}

func TestNextFromSubset(t *testing.T) {
	roster := []string{"a", "b", "c"}

	t.Run("continues after last assigned within subset", func(t *testing.T) {
		// Last assigned b; subset {b, c}; next is c.
		user, pos := NextFromSubset(roster, 2, "b", []string{"b", "c"})
		if user != "c" {
			t.Errorf("user = %q, want c", user)
		}
		if pos != 0 {
			t.Errorf("position = %d, want 0 (one past c)", pos)
		}
	})

	t.Run("never returns excluded user", func(t *testing.T) {
		// a is next by global position but not in the subset.
		user, _ := NextFromSubset(roster, 0, "c", []string{"b", "c"})
		if user == "a" {
			t.Fatal("returned excluded user a")
		}
	})

	t.Run("last assigned excluded falls back to pointer", func(t *testing.T) {
		// Last assigned a is excluded; pointer at 1 lands on b.
		user, pos := NextFromSubset(roster, 1, "a", []string{"b", "c"})
		if user != "b" {
			t.Errorf("user = %q, want b", user)
		}
		if pos != 2 {
			t.Errorf("position = %d, want 2", pos)
		}
	})

	t.Run("wraps within subset", func(t *testing.T) {
		user, _ := NextFromSubset(roster, 0, "c", []string{"a", "c"})
		if user != "a" {
			t.Errorf("user = %q, want a (wrap)", user)
		}
	})

	t.Run("empty subset yields nothing", func(t *testing.T) {
		user, pos := NextFromSubset(roster, 1, "a", nil)
		if user != "" || pos != 1 {
			t.Errorf("got (%q, %d), want (\"\", 1)", user, pos)
		}
	})

	t.Run("single user subset", func(t *testing.T) {
		user, _ := NextFromSubset(roster, 0, "", []string{"c"})
		if user != "c" {
			t.Errorf("user = %q, want c", user)
		}
	})
}
