package moderation

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// sequenceClock returns the supplied times in order.
func sequenceClock(times ...time.Time) func() time.Time {
	var mu sync.Mutex
	i := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := times[i%len(times)]
		i++
		return t
	}
}

func TestWarningRoundTrip(t *testing.T) {
	s := NewWarningStore()

	id, err := s.AddWarning("g", "u", "spam", "m")
	if err != nil {
		t.Fatalf("AddWarning() returned error: %v", err)
	}
	if id == "" {
		t.Fatal("AddWarning() returned an empty ID")
	}

	got := s.GetWarnings("g", "u")
	if len(got) != 1 {
		t.Fatalf("len(GetWarnings()) = %v, want %v", len(got), 1)
	}
	w := got[0]
	if w.ID != id || w.Reason != "spam" || w.ModeratorID != "m" || w.GuildID != "g" || w.UserID != "u" {
		t.Errorf("GetWarnings()[0] = %+v, want id %s reason spam moderator m", w, id)
	}

	id2, _ := s.AddWarning("g", "u", "spam again", "m")
	if id2 == id {
		t.Errorf("second AddWarning() reused ID %s", id)
	}
}

func TestWarningOrdering(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewWarningStore(WithClock(sequenceClock(
		base.Add(time.Hour),
		base,
		base.Add(2*time.Hour),
	)))

	for _, reason := range []string{"middle", "oldest", "newest"} {
		if _, err := s.AddWarning("g", "u", reason, "m"); err != nil {
			t.Fatalf("AddWarning(%q) returned error: %v", reason, err)
		}
	}

	got := s.GetWarnings("g", "u")
	want := []string{"newest", "middle", "oldest"}
	if len(got) != len(want) {
		t.Fatalf("len(GetWarnings()) = %v, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i].Reason != want[i] {
			t.Errorf("GetWarnings()[%d].Reason = %q, want %q", i, got[i].Reason, want[i])
		}
		if i > 0 && !got[i-1].Timestamp.After(got[i].Timestamp) {
			t.Errorf("timestamps not strictly descending at %d", i)
		}
	}
}

func TestWarningOrderingEqualTimestamps(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewWarningStore(WithClock(func() time.Time { return now }))

	for _, reason := range []string{"first", "second", "third"} {
		if _, err := s.AddWarning("g", "u", reason, "m"); err != nil {
			t.Fatalf("AddWarning(%q) returned error: %v", reason, err)
		}
	}

	got := s.GetWarnings("g", "u")
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("len(GetWarnings()) = %v, want %v", len(got), len(want))
	}
	for i := range want {
		if got[i].Reason != want[i] {
			t.Errorf("GetWarnings()[%d].Reason = %q, want %q", i, got[i].Reason, want[i])
		}
	}
}

func TestGetWarningsEmpty(t *testing.T) {
	s := NewWarningStore()
	got := s.GetWarnings("nowhere", "nobody")
	if got == nil || len(got) != 0 {
		t.Errorf("GetWarnings() = %#v, want empty non-nil slice", got)
	}
}

func TestGetWarningsReturnsCopy(t *testing.T) {
	s := NewWarningStore()
	s.AddWarning("g", "u", "original", "m")

	got := s.GetWarnings("g", "u")
	got[0].Reason = "tampered"

	if again := s.GetWarnings("g", "u"); again[0].Reason != "original" {
		t.Errorf("stored reason = %q, want %q", again[0].Reason, "original")
	}
}

func TestClearWarningsIdempotent(t *testing.T) {
	s := NewWarningStore()
	for i := 0; i < 3; i++ {
		s.AddWarning("g", "u", fmt.Sprintf("r%d", i), "m")
	}
	s.AddWarning("g", "other", "keep", "m")

	if got := s.ClearWarnings("g", "u"); got != 3 {
		t.Errorf("first ClearWarnings() = %v, want %v", got, 3)
	}
	if got := s.ClearWarnings("g", "u"); got != 0 {
		t.Errorf("second ClearWarnings() = %v, want %v", got, 0)
	}
	if got := s.GetWarnings("g", "u"); len(got) != 0 {
		t.Errorf("GetWarnings() after clear = %v, want empty", got)
	}
	if got := s.Count("g", "other"); got != 1 {
		t.Errorf("Count(other) = %v, want %v", got, 1)
	}
}

func TestRemoveWarning(t *testing.T) {
	s := NewWarningStore()
	keep, _ := s.AddWarning("g", "u1", "keep", "m")
	drop, _ := s.AddWarning("g", "u2", "drop", "m")

	if s.RemoveWarning("g", "does-not-exist") {
		t.Error("RemoveWarning() on unknown ID = true, want false")
	}
	if s.RemoveWarning("other-guild", keep) {
		t.Error("RemoveWarning() across guilds = true, want false")
	}
	if got := s.GetWarnings("g", "u1"); len(got) != 1 || got[0].ID != keep {
		t.Errorf("GetWarnings(u1) = %v, want untouched", got)
	}

	if !s.RemoveWarning("g", drop) {
		t.Fatal("RemoveWarning() on existing ID = false, want true")
	}
	if s.RemoveWarning("g", drop) {
		t.Error("RemoveWarning() twice = true, want false")
	}
	if got := s.Count("g", "u2"); got != 0 {
		t.Errorf("Count(u2) = %v, want %v", got, 0)
	}
}

func TestAddWarningValidation(t *testing.T) {
	s := NewWarningStore()

	tests := []struct {
		name                       string
		guild, user, reason, modID string
		want                       error
	}{
		{"empty reason", "g", "u", "", "m", ErrEmptyReason},
		{"blank reason", "g", "u", "   ", "m", ErrEmptyReason},
		{"empty moderator", "g", "u", "spam", "", ErrEmptyModerator},
		{"empty guild", "", "u", "spam", "m", ErrEmptyScope},
		{"empty user", "g", "", "spam", "m", ErrEmptyScope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddWarning(tt.guild, tt.user, tt.reason, tt.modID)
			if !errors.Is(err, tt.want) {
				t.Errorf("AddWarning() error = %v, want %v", err, tt.want)
			}
		})
	}

	if got := s.Count("g", "u"); got != 0 {
		t.Errorf("Count() after rejected adds = %v, want %v", got, 0)
	}
}

func TestWarningIDCollisionRetry(t *testing.T) {
	ids := []string{"aaaa", "aaaa", "aaaa", "bbbb"}
	i := 0
	s := NewWarningStore(WithIDGenerator(func() string {
		id := ids[i]
		i++
		return id
	}))

	first, _ := s.AddWarning("g", "u", "one", "m")
	second, err := s.AddWarning("g", "u", "two", "m")
	if err != nil {
		t.Fatalf("AddWarning() returned error: %v", err)
	}
	if first != "aaaa" || second != "bbbb" {
		t.Errorf("IDs = %q, %q, want %q, %q", first, second, "aaaa", "bbbb")
	}
}

func TestWarningIDExhausted(t *testing.T) {
	s := NewWarningStore(WithIDGenerator(func() string { return "same" }))
	if _, err := s.AddWarning("g", "u", "one", "m"); err != nil {
		t.Fatalf("first AddWarning() returned error: %v", err)
	}
	if _, err := s.AddWarning("g", "u", "two", "m"); err == nil {
		t.Error("AddWarning() with exhausted IDs should fail")
	}
	if got := s.Count("g", "u"); got != 1 {
		t.Errorf("Count() = %v, want %v", got, 1)
	}
}

func TestWarningIDsUniqueAcrossUsers(t *testing.T) {
	s := NewWarningStore()
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := s.AddWarning("g", fmt.Sprintf("u%d", i%7), "r", "m")
		if err != nil {
			t.Fatalf("AddWarning() returned error: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %s", id)
		}
		seen[id] = true
	}
}

func TestWarningStoreConcurrent(t *testing.T) {
	s := NewWarningStore()
	var wg sync.WaitGroup

	for g := 0; g < 4; g++ {
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(guild string) {
				defer wg.Done()
				for i := 0; i < 25; i++ {
					id, err := s.AddWarning(guild, "u", "r", "m")
					if err != nil {
						t.Errorf("AddWarning() returned error: %v", err)
						return
					}
					if i%5 == 0 {
						s.RemoveWarning(guild, id)
					}
					s.GetWarnings(guild, "u")
				}
			}(fmt.Sprintf("g%d", g))
		}
	}
	wg.Wait()

	for g := 0; g < 4; g++ {
		if got := s.Count(fmt.Sprintf("g%d", g), "u"); got != 8*20 {
			t.Errorf("Count(g%d) = %v, want %v", g, got, 8*20)
		}
	}
}
