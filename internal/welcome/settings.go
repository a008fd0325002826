// Package welcome stores per-guild welcome settings and renders the message
// sent when a member joins. Settings live in memory only.
package welcome

import "sync"

// DefaultMessage is used until a guild sets its own text.
const DefaultMessage = "Welcome to {server}, {user}! We're glad to have you here. You are member number {memberCount}."

// DefaultColor is the embed colour used when none is configured.
const DefaultColor = "#0099ff"

// Settings is the welcome configuration of one guild.
type Settings struct {
	Enabled        bool   `json:"enabled"`
	ChannelID      string `json:"channelId"`
	Message        string `json:"message"`
	EmbedTitle     string `json:"embedTitle"`
	EmbedColor     string `json:"embedColor"`
	FooterText     string `json:"footerText"`
	MentionUser    bool   `json:"mentionUser"`
	ShowRules      bool   `json:"showRules"`
	RulesChannelID string `json:"rulesChannelId,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
}

// Defaults returns the settings a guild starts with.
func Defaults() Settings {
	return Settings{
		Message:     DefaultMessage,
		EmbedTitle:  "👋 New Member!",
		EmbedColor:  DefaultColor,
		FooterText:  "Thanks for joining us!",
		MentionUser: true,
	}
}

// Appearance holds optional embed overrides. Empty fields are left unchanged.
type Appearance struct {
	Title  string
	Color  string
	Footer string
	Image  string
}

// Store holds the settings of every guild.
type Store struct {
	mu     sync.RWMutex
	guilds map[string]Settings
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{guilds: make(map[string]Settings)}
}

// Get returns the settings of a guild and whether it was ever configured.
func (s *Store) Get(guildID string) (Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.guilds[guildID]
	return st, ok
}

// Update applies fn to the guild settings, creating them from Defaults first.
func (s *Store) Update(guildID string, fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.guilds[guildID]
	if !ok {
		st = Defaults()
	}
	fn(&st)
	s.guilds[guildID] = st
	return st
}

func (s *Store) Enable(guildID, channelID string) Settings {
	return s.Update(guildID, func(st *Settings) {
		st.Enabled = true
		st.ChannelID = channelID
		if st.Message == "" {
			st.Message = DefaultMessage
		}
	})
}

func (s *Store) Disable(guildID string) Settings {
	return s.Update(guildID, func(st *Settings) { st.Enabled = false })
}

func (s *Store) SetMessage(guildID, message string) Settings {
	return s.Update(guildID, func(st *Settings) { st.Message = message })
}

func (s *Store) SetMention(guildID string, mention bool) Settings {
	return s.Update(guildID, func(st *Settings) { st.MentionUser = mention })
}

// SetRules toggles the rules field. Turning it off keeps the channel.
func (s *Store) SetRules(guildID string, show bool, channelID string) Settings {
	return s.Update(guildID, func(st *Settings) {
		st.ShowRules = show
		if channelID != "" {
			st.RulesChannelID = channelID
		}
	})
}

func (s *Store) SetAppearance(guildID string, a Appearance) Settings {
	return s.Update(guildID, func(st *Settings) {
		if a.Title != "" {
			st.EmbedTitle = a.Title
		}
		if a.Color != "" {
			st.EmbedColor = a.Color
		}
		if a.Footer != "" {
			st.FooterText = a.Footer
		}
		if a.Image != "" {
			st.ImageURL = a.Image
		}
	})
}
