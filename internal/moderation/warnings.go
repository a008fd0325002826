package moderation

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyReason    = errors.New("warning reason is required")
	ErrEmptyModerator = errors.New("warning moderator is required")
	ErrEmptyScope     = errors.New("guild and user IDs are required")
)

const maxIDAttempts = 16

// Warning is one disciplinary record. It is never mutated after creation.
type Warning struct {
	ID          string    `json:"id"`
	GuildID     string    `json:"guildId"`
	UserID      string    `json:"userId"`
	Reason      string    `json:"reason"`
	ModeratorID string    `json:"moderatorId"`
	Timestamp   time.Time `json:"timestamp"`
}

type guildWarnings struct {
	mu     sync.Mutex
	byUser map[string][]Warning
	owners map[string]string // warning ID -> user ID
}

// WarningStore keeps warnings in memory, scoped per guild. Each guild has its
// own lock; callers only ever receive copies.
type WarningStore struct {
	mu     sync.Mutex
	guilds map[string]*guildWarnings
	now    func() time.Time
	newID  func() string
}

// StoreOption configures a WarningStore.
type StoreOption func(*WarningStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *WarningStore) { s.now = now }
}

// WithIDGenerator overrides how warning IDs are drawn.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *WarningStore) { s.newID = gen }
}

// NewWarningStore creates an empty store.
func NewWarningStore(opts ...StoreOption) *WarningStore {
	s := &WarningStore{
		guilds: make(map[string]*guildWarnings),
		now:    time.Now,
		newID:  shortID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (s *WarningStore) guild(guildID string, create bool) *guildWarnings {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.guilds[guildID]
	if !ok && create {
		g = &guildWarnings{
			byUser: make(map[string][]Warning),
			owners: make(map[string]string),
		}
		s.guilds[guildID] = g
	}
	return g
}

// AddWarning records a warning and returns its ID, which is unique within the guild.
func (s *WarningStore) AddWarning(guildID, userID, reason, moderatorID string) (string, error) {
	if guildID == "" || userID == "" {
		return "", ErrEmptyScope
	}
	if strings.TrimSpace(reason) == "" {
		return "", ErrEmptyReason
	}
	if moderatorID == "" {
		return "", ErrEmptyModerator
	}

	g := s.guild(guildID, true)
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ""
	for i := 0; i < maxIDAttempts; i++ {
		candidate := s.newID()
		if _, taken := g.owners[candidate]; !taken && candidate != "" {
			id = candidate
			break
		}
	}
	if id == "" {
		return "", fmt.Errorf("could not allocate a unique warning ID in guild %s", guildID)
	}

	g.byUser[userID] = append(g.byUser[userID], Warning{
		ID:          id,
		GuildID:     guildID,
		UserID:      userID,
		Reason:      reason,
		ModeratorID: moderatorID,
		Timestamp:   s.now(),
	})
	g.owners[id] = userID
	return id, nil
}

// GetWarnings returns the user's warnings, newest first. The result is a copy
// and is empty (never nil) when the user has none.
func (s *WarningStore) GetWarnings(guildID, userID string) []Warning {
	g := s.guild(guildID, false)
	if g == nil {
		return []Warning{}
	}

	g.mu.Lock()
	out := make([]Warning, len(g.byUser[userID]))
	copy(out, g.byUser[userID])
	g.mu.Unlock()

	// Later insertions win ties on equal timestamps.
	slices.Reverse(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Count returns how many warnings the user has.
func (s *WarningStore) Count(guildID, userID string) int {
	g := s.guild(guildID, false)
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.byUser[userID])
}

// RemoveWarning deletes the warning with the given ID from the guild and
// reports whether it existed.
func (s *WarningStore) RemoveWarning(guildID, warningID string) bool {
	g := s.guild(guildID, false)
	if g == nil {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	userID, ok := g.owners[warningID]
	if !ok {
		return false
	}
	delete(g.owners, warningID)

	list := g.byUser[userID]
	for i, w := range list {
		if w.ID == warningID {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(g.byUser, userID)
	} else {
		g.byUser[userID] = list
	}
	return true
}

// ClearWarnings removes every warning for the user and returns how many were removed.
func (s *WarningStore) ClearWarnings(guildID, userID string) int {
	g := s.guild(guildID, false)
	if g == nil {
		return 0
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	list := g.byUser[userID]
	for _, w := range list {
		delete(g.owners, w.ID)
	}
	delete(g.byUser, userID)
	return len(list)
}
