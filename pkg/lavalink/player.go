package lavalink

import (
	"math/rand/v2"
	"sync"
	"time"
)

// LoopMode controls what happens when a track finishes.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopTrack
	LoopQueue
)

func (m LoopMode) String() string {
	switch m {
	case LoopTrack:
		return "track"
	case LoopQueue:
		return "queue"
	default:
		return "off"
	}
}

// ParseLoopMode accepts "off", "track" or "queue".
func ParseLoopMode(s string) (LoopMode, bool) {
	switch s {
	case "off":
		return LoopOff, true
	case "track":
		return LoopTrack, true
	case "queue":
		return LoopQueue, true
	}
	return LoopOff, false
}

// Volume bounds accepted by the music commands.
const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 100
)

// Player is the queue and playback state of one guild.
type Player struct {
	GuildID        string
	TextChannelID  string
	VoiceChannelID string

	mu        sync.Mutex
	current   *Track
	queue     []*Track
	volume    int
	paused    bool
	position  int64
	loop      LoopMode
	idleSince time.Time
	voice     VoiceState
}

func newPlayer(guildID string, now time.Time) *Player {
	return &Player{GuildID: guildID, volume: DefaultVolume, idleSince: now}
}

// Snapshot is a consistent copy of a player's state.
type Snapshot struct {
	GuildID        string
	TextChannelID  string
	VoiceChannelID string
	Current        *Track
	Queue          []*Track
	Volume         int
	Paused         bool
	Position       int64
	Loop           LoopMode
}

// Playing reports whether a track is loaded.
func (s Snapshot) Playing() bool { return s.Current != nil }

func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	queue := make([]*Track, len(p.queue))
	copy(queue, p.queue)
	return Snapshot{
		GuildID:        p.GuildID,
		TextChannelID:  p.TextChannelID,
		VoiceChannelID: p.VoiceChannelID,
		Current:        p.current,
		Queue:          queue,
		Volume:         p.volume,
		Paused:         p.paused,
		Position:       p.position,
		Loop:           p.loop,
	}
}

// enqueue appends tracks and returns the track to start, nil when
// something is already playing.
func (p *Player) enqueue(tracks ...*Track) *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = append(p.queue, tracks...)
	if p.current != nil || len(p.queue) == 0 {
		return nil
	}
	p.current, p.queue = p.queue[0], p.queue[1:]
	p.position = 0
	return p.current
}

// advance moves to the next track. Track looping is honoured only when
// the current track finished on its own.
func (p *Player) advance(skipped bool, now time.Time) *Track {
	p.mu.Lock()
	defer p.mu.Unlock()

	prev := p.current
	switch {
	case prev != nil && p.loop == LoopTrack && !skipped:
		p.position = 0
		return prev
	case prev != nil && p.loop == LoopQueue:
		p.queue = append(p.queue, prev)
	}

	p.position = 0
	if len(p.queue) == 0 {
		p.current = nil
		p.paused = false
		p.idleSince = now
		return nil
	}
	p.current, p.queue = p.queue[0], p.queue[1:]
	return p.current
}

func (p *Player) reset(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	p.queue = nil
	p.paused = false
	p.position = 0
	p.idleSince = now
}

func (p *Player) clearQueue() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.queue)
	p.queue = nil
	return n
}

func (p *Player) shuffle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	rand.Shuffle(len(p.queue), func(i, j int) { p.queue[i], p.queue[j] = p.queue[j], p.queue[i] })
	return len(p.queue)
}

func (p *Player) setLoop(m LoopMode) {
	p.mu.Lock()
	p.loop = m
	p.mu.Unlock()
}

func (p *Player) setVolume(v int) {
	p.mu.Lock()
	p.volume = v
	p.mu.Unlock()
}

func (p *Player) setPaused(paused bool) {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
}

func (p *Player) setPosition(pos int64) {
	p.mu.Lock()
	p.position = pos
	p.mu.Unlock()
}

// idleFor reports how long the player has had nothing to play.
func (p *Player) idleFor(now time.Time) time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		return 0
	}
	return now.Sub(p.idleSince)
}

// updateVoice merges a partial voice update and reports whether the state
// is complete enough to forward to Lavalink.
func (p *Player) updateVoice(v VoiceState) (VoiceState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v.SessionID != "" {
		p.voice.SessionID = v.SessionID
	}
	if v.ChannelID != "" {
		p.voice.ChannelID = v.ChannelID
	}
	if v.Token != "" {
		p.voice.Token = v.Token
		p.voice.Endpoint = v.Endpoint
	}
	vs := p.voice
	return vs, vs.SessionID != "" && vs.Token != "" && vs.Endpoint != ""
}
