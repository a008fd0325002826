// Package lavalink is a Lavalink v4 client: events arrive on a websocket and
// players are controlled through the REST API. Each guild gets a Player that
// owns its queue and loop mode.
package lavalink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"

	apperrors "github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
	"github.com/PancyStudios/SentryBot/pkg/mqtt"
)

var (
	ErrNotReady       = errors.New("lavalink session is not ready")
	ErrNoPlayer       = errors.New("there is no player in this server")
	ErrNothingPlaying = errors.New("nothing is playing right now")
	ErrNotSeekable    = errors.New("this track cannot be seeked")
	ErrSeekOutOfRange = errors.New("position is beyond the end of the track")
	ErrInvalidVolume  = fmt.Errorf("volume must be between %d and %d", MinVolume, MaxVolume)
	ErrVoiceJoin      = errors.New("could not join the voice channel")
)

const (
	reconnectDelay = 5 * time.Second
	restTimeout    = 10 * time.Second
	clientName     = "SentryBot/1.0"
)

// VoiceGateway joins and leaves voice channels. *discordgo.Session implements it.
type VoiceGateway interface {
	ChannelVoiceJoinManual(guildID, channelID string, mute, deaf bool) error
}

// Options configures a Client.
type Options struct {
	Node         NodeConfig
	SearchPrefix string
	IdleTimeout  time.Duration
	Publisher    mqtt.Publisher
	// OnTrackStart is called when Lavalink starts a track.
	OnTrackStart func(Snapshot)
}

// Client manages the node connection and all guild players.
type Client struct {
	voice        VoiceGateway
	rest         *restClient
	node         NodeConfig
	searchPrefix string
	idleTimeout  time.Duration
	publisher    mqtt.Publisher
	onTrackStart func(Snapshot)
	now          func() time.Time

	mu        sync.RWMutex
	players   map[string]*Player
	sessionID string
	userID    string
	conn      *websocket.Conn

	scheduler *cron.Cron
	closed    chan struct{}
	closeOnce sync.Once
}

var (
	client *Client
	once   sync.Once
)

// Init creates the global client and hooks the voice handlers into session.
func Init(session *discordgo.Session, opts Options) *Client {
	once.Do(func() {
		client = NewClient(session, opts)
		session.AddHandler(client.onVoiceStateUpdate)
		session.AddHandler(client.onVoiceServerUpdate)
	})
	return client
}

// Get returns the global client, nil when Lavalink is disabled.
func Get() *Client {
	return client
}

// NewClient creates a client. Connect must be called once the bot user is known.
func NewClient(voice VoiceGateway, opts Options) *Client {
	if opts.SearchPrefix == "" {
		opts.SearchPrefix = "ytsearch"
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 10 * time.Minute
	}
	return &Client{
		voice:        voice,
		rest:         newRESTClient(opts.Node.httpURL(), opts.Node.Password),
		node:         opts.Node,
		searchPrefix: opts.SearchPrefix,
		idleTimeout:  opts.IdleTimeout,
		publisher:    opts.Publisher,
		onTrackStart: opts.OnTrackStart,
		now:          time.Now,
		players:      make(map[string]*Player),
		closed:       make(chan struct{}),
	}
}

// Connect starts the websocket loop for the bot user and the idle sweep.
func (c *Client) Connect(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()

	go c.connectLoop()
	c.StartSweeper()
}

func (c *Client) connectLoop() {
	defer apperrors.Recover("Lavalink")

	for {
		if err := c.dialAndRead(); err != nil {
			logger.Warn(fmt.Sprintf("Lavalink %s: %v. Reconnecting in %v...", c.node.Name, err, reconnectDelay), "Lavalink")
		}
		select {
		case <-c.closed:
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Client) dialAndRead() error {
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()

	headers := http.Header{}
	headers.Set("Authorization", c.node.Password)
	headers.Set("User-Id", userID)
	headers.Set("Client-Name", clientName)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(c.node.wsURL(), headers)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	logger.Success("Connected to Lavalink node: "+c.node.Name, "Lavalink")

	defer func() {
		conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.sessionID = ""
		c.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.closed:
				return nil
			default:
			}
			return fmt.Errorf("read: %w", err)
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Debug("Ignoring malformed Lavalink message: "+err.Error(), "Lavalink")
		return
	}

	switch msg.Op {
	case "ready":
		c.mu.Lock()
		c.sessionID = msg.SessionID
		c.mu.Unlock()
		logger.Info(fmt.Sprintf("Lavalink session ready (resumed: %v)", msg.Resumed), "Lavalink")
	case "playerUpdate":
		if p := c.player(msg.GuildID); p != nil {
			p.setPosition(msg.State.Position)
			c.publish(p, "progress")
		}
	case "event":
		c.handleEvent(msg)
	}
}

func (c *Client) handleEvent(msg wsMessage) {
	p := c.player(msg.GuildID)
	if p == nil {
		return
	}

	switch msg.Type {
	case "TrackStartEvent":
		snap := p.Snapshot()
		if snap.Current != nil {
			logger.Info(fmt.Sprintf("Playing %s in guild %s", snap.Current.Info.Title, msg.GuildID), "Lavalink")
		}
		c.publish(p, "playing")
		if c.onTrackStart != nil {
			c.onTrackStart(snap)
		}
	case "TrackEndEvent":
		// replaced/stopped/cleanup are caused by our own REST calls.
		if msg.Reason != "finished" && msg.Reason != "loadFailed" {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
		defer cancel()
		next := p.advance(false, c.now())
		if next == nil {
			logger.Info("Queue finished in guild "+msg.GuildID, "Lavalink")
			c.publish(p, "queueEnd")
			return
		}
		if err := c.playTrack(ctx, p, next); err != nil {
			logger.Error(fmt.Sprintf("Failed to start next track in guild %s: %v", msg.GuildID, err), "Lavalink")
		}
	case "TrackExceptionEvent":
		if msg.Exception != nil {
			logger.Error(fmt.Sprintf("Track exception in guild %s: %s", msg.GuildID, msg.Exception.Message), "Lavalink")
		}
	case "TrackStuckEvent":
		logger.Warn("Track stuck in guild "+msg.GuildID+", skipping", "Lavalink")
		ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
		defer cancel()
		if _, err := c.Skip(ctx, msg.GuildID); err != nil {
			logger.Error("Failed to skip stuck track: "+err.Error(), "Lavalink")
		}
	case "WebSocketClosedEvent":
		logger.Warn("Voice websocket closed for guild "+msg.GuildID, "Lavalink")
	}
}

func (c *Client) player(guildID string) *Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.players[guildID]
}

func (c *Client) session() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sessionID == "" {
		return "", ErrNotReady
	}
	return c.sessionID, nil
}

// Ready reports whether the node session is established.
func (c *Client) Ready() bool {
	_, err := c.session()
	return err == nil
}

// Search loads tracks for a URL or a search query.
func (c *Client) Search(ctx context.Context, query string) (*LoadResult, error) {
	if !c.Ready() {
		return nil, ErrNotReady
	}
	res, err := c.rest.loadTracks(ctx, Identifier(query, c.searchPrefix))
	if err != nil {
		return nil, err
	}
	if res.Exception != nil {
		return nil, res.Exception
	}
	return res, nil
}

// Join returns the guild player, creating it and joining the voice channel
// when needed.
func (c *Client) Join(guildID, voiceChannelID, textChannelID string) (*Player, error) {
	c.mu.Lock()
	p, exists := c.players[guildID]
	if !exists {
		p = newPlayer(guildID, c.now())
		c.players[guildID] = p
	}
	c.mu.Unlock()

	p.mu.Lock()
	moved := p.VoiceChannelID != voiceChannelID
	p.VoiceChannelID = voiceChannelID
	p.TextChannelID = textChannelID
	p.mu.Unlock()

	if moved && c.voice != nil {
		if err := c.voice.ChannelVoiceJoinManual(guildID, voiceChannelID, false, true); err != nil {
			if !exists {
				c.mu.Lock()
				delete(c.players, guildID)
				c.mu.Unlock()
			}
			return nil, fmt.Errorf("%w: %v", ErrVoiceJoin, err)
		}
	}
	return p, nil
}

// Play queues tracks, starting playback if the player was idle. It returns
// the track that started, or nil when the tracks were only queued.
func (c *Client) Play(ctx context.Context, guildID, voiceChannelID, textChannelID string, tracks ...*Track) (*Track, error) {
	if _, err := c.session(); err != nil {
		return nil, err
	}
	p, err := c.Join(guildID, voiceChannelID, textChannelID)
	if err != nil {
		return nil, err
	}

	start := p.enqueue(tracks...)
	if start == nil {
		c.publish(p, "queued")
		return nil, nil
	}
	if err := c.playTrack(ctx, p, start); err != nil {
		p.reset(c.now())
		return nil, err
	}
	return start, nil
}

func (c *Client) playTrack(ctx context.Context, p *Player, t *Track) error {
	sid, err := c.session()
	if err != nil {
		return err
	}
	snap := p.Snapshot()
	encoded := t.Encoded
	paused := false
	return c.rest.updatePlayer(ctx, sid, p.GuildID, PlayerUpdate{
		Track:  &TrackUpdate{Encoded: &encoded},
		Volume: &snap.Volume,
		Paused: &paused,
	})
}

func (c *Client) active(guildID string) (*Player, Snapshot, string, error) {
	sid, err := c.session()
	if err != nil {
		return nil, Snapshot{}, "", err
	}
	p := c.player(guildID)
	if p == nil {
		return nil, Snapshot{}, "", ErrNoPlayer
	}
	snap := p.Snapshot()
	if !snap.Playing() {
		return nil, Snapshot{}, "", ErrNothingPlaying
	}
	return p, snap, sid, nil
}

// Pause pauses or resumes playback.
func (c *Client) Pause(ctx context.Context, guildID string, paused bool) error {
	p, _, sid, err := c.active(guildID)
	if err != nil {
		return err
	}
	if err := c.rest.updatePlayer(ctx, sid, guildID, PlayerUpdate{Paused: &paused}); err != nil {
		return err
	}
	p.setPaused(paused)
	event := "resumed"
	if paused {
		event = "paused"
	}
	c.publish(p, event)
	return nil
}

// Skip starts the next queued track and returns it, nil when the queue was
// empty and playback stopped.
func (c *Client) Skip(ctx context.Context, guildID string) (*Track, error) {
	p, _, sid, err := c.active(guildID)
	if err != nil {
		return nil, err
	}

	next := p.advance(true, c.now())
	if next != nil {
		return next, c.playTrack(ctx, p, next)
	}
	if err := c.rest.updatePlayer(ctx, sid, guildID, PlayerUpdate{Track: &TrackUpdate{}}); err != nil {
		return nil, err
	}
	c.publish(p, "queueEnd")
	return nil, nil
}

// Stop clears the queue, destroys the player and leaves the voice channel.
func (c *Client) Stop(ctx context.Context, guildID string) error {
	if c.player(guildID) == nil {
		return ErrNoPlayer
	}
	return c.Destroy(ctx, guildID)
}

// Destroy removes the guild player everywhere. Missing players are ignored.
func (c *Client) Destroy(ctx context.Context, guildID string) error {
	c.mu.Lock()
	p, ok := c.players[guildID]
	delete(c.players, guildID)
	sid := c.sessionID
	c.mu.Unlock()
	if !ok {
		return nil
	}

	p.reset(c.now())
	c.publish(p, "destroyed")

	var errs []error
	if sid != "" {
		errs = append(errs, c.rest.destroyPlayer(ctx, sid, guildID))
	}
	if c.voice != nil {
		errs = append(errs, c.voice.ChannelVoiceJoinManual(guildID, "", false, false))
	}
	return errors.Join(errs...)
}

// SetVolume sets the player volume.
func (c *Client) SetVolume(ctx context.Context, guildID string, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return ErrInvalidVolume
	}
	p, _, sid, err := c.active(guildID)
	if err != nil {
		return err
	}
	if err := c.rest.updatePlayer(ctx, sid, guildID, PlayerUpdate{Volume: &volume}); err != nil {
		return err
	}
	p.setVolume(volume)
	c.publish(p, "volume")
	return nil
}

// Seek moves playback of the current track to position.
func (c *Client) Seek(ctx context.Context, guildID string, position time.Duration) error {
	p, snap, sid, err := c.active(guildID)
	if err != nil {
		return err
	}
	info := snap.Current.Info
	if !info.IsSeekable || info.IsStream {
		return ErrNotSeekable
	}
	ms := position.Milliseconds()
	if ms < 0 || ms > info.Length {
		return ErrSeekOutOfRange
	}
	if err := c.rest.updatePlayer(ctx, sid, guildID, PlayerUpdate{Position: &ms}); err != nil {
		return err
	}
	p.setPosition(ms)
	return nil
}

// ClearQueue drops every queued track and returns how many were removed.
func (c *Client) ClearQueue(guildID string) (int, error) {
	p := c.player(guildID)
	if p == nil {
		return 0, ErrNoPlayer
	}
	n := p.clearQueue()
	c.publish(p, "queueCleared")
	return n, nil
}

// Shuffle shuffles the queue and returns its length.
func (c *Client) Shuffle(guildID string) (int, error) {
	p := c.player(guildID)
	if p == nil {
		return 0, ErrNoPlayer
	}
	n := p.shuffle()
	c.publish(p, "shuffled")
	return n, nil
}

// SetLoop changes the loop mode of the guild player.
func (c *Client) SetLoop(guildID string, mode LoopMode) error {
	p := c.player(guildID)
	if p == nil {
		return ErrNoPlayer
	}
	p.setLoop(mode)
	c.publish(p, "loop")
	return nil
}

// Player returns a snapshot of the guild player.
func (c *Client) Player(guildID string) (Snapshot, bool) {
	p := c.player(guildID)
	if p == nil {
		return Snapshot{}, false
	}
	return p.Snapshot(), true
}

// PlayerCount returns the number of guilds with a player.
func (c *Client) PlayerCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.players)
}

// SweepIdle destroys players that have had nothing to play for longer
// than the idle timeout. It returns the number destroyed.
func (c *Client) SweepIdle(ctx context.Context) int {
	now := c.now()
	c.mu.RLock()
	var idle []string
	for id, p := range c.players {
		if p.idleFor(now) >= c.idleTimeout {
			idle = append(idle, id)
		}
	}
	c.mu.RUnlock()

	for _, id := range idle {
		if err := c.Destroy(ctx, id); err != nil {
			logger.Warn(fmt.Sprintf("Failed to destroy idle player %s: %v", id, err), "Lavalink")
		}
	}
	if len(idle) > 0 {
		logger.Info(fmt.Sprintf("Destroyed %d idle players", len(idle)), "Lavalink")
	}
	return len(idle)
}

// StartSweeper schedules SweepIdle every minute.
func (c *Client) StartSweeper() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scheduler != nil {
		return
	}
	c.scheduler = cron.New()
	c.scheduler.AddFunc("@every 1m", func() {
		defer apperrors.Recover("Lavalink")
		ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
		defer cancel()
		c.SweepIdle(ctx)
	})
	c.scheduler.Start()
}

func (c *Client) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	c.mu.RLock()
	userID := c.userID
	c.mu.RUnlock()
	if v.VoiceState == nil || v.UserID != userID {
		return
	}

	p := c.player(v.GuildID)
	if p == nil {
		return
	}
	if v.ChannelID == "" {
		// Disconnected from voice by someone else.
		c.mu.Lock()
		delete(c.players, v.GuildID)
		c.mu.Unlock()
		p.reset(c.now())
		c.publish(p, "destroyed")
		return
	}
	c.forwardVoice(p, VoiceState{SessionID: v.SessionID, ChannelID: v.ChannelID})
}

func (c *Client) onVoiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	if p := c.player(v.GuildID); p != nil {
		c.forwardVoice(p, VoiceState{Token: v.Token, Endpoint: v.Endpoint})
	}
}

func (c *Client) forwardVoice(p *Player, partial VoiceState) {
	vs, complete := p.updateVoice(partial)
	if !complete {
		return
	}
	sid, err := c.session()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), restTimeout)
	defer cancel()
	if err := c.rest.updatePlayer(ctx, sid, p.GuildID, PlayerUpdate{Voice: &vs}); err != nil {
		logger.Error(fmt.Sprintf("Failed to send voice update for guild %s: %v", p.GuildID, err), "Lavalink")
	}
}

func (c *Client) publish(p *Player, event string) {
	if c.publisher == nil || !c.publisher.IsConnected() {
		return
	}
	if err := c.publisher.Publish(mqtt.MusicTopic(p.GuildID), musicState(p.Snapshot(), event, c.now())); err != nil {
		logger.Debug("Failed to publish music state: "+err.Error(), "Lavalink")
	}
}

func musicState(s Snapshot, event string, now time.Time) MusicState {
	state := MusicState{
		GuildID:   s.GuildID,
		Event:     event,
		IsPlaying: s.Playing() && !s.Paused,
		IsPaused:  s.Paused,
		Progress:  float64(s.Position) / 1000,
		Volume:    s.Volume,
		Loop:      s.Loop.String(),
		Queue:     make([]*TrackState, 0, len(s.Queue)),
		Timestamp: now.UnixMilli(),
	}
	if s.Current != nil {
		state.CurrentTrack = trackState(s.Current)
	}
	for _, t := range s.Queue {
		state.Queue = append(state.Queue, trackState(t))
	}
	return state
}

// Disconnect stops the sweep and closes the node connection.
func (c *Client) Disconnect() {
	c.closeOnce.Do(func() { close(c.closed) })

	c.mu.Lock()
	if c.scheduler != nil {
		c.scheduler.Stop()
		c.scheduler = nil
	}
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()

	logger.System("Lavalink client disconnected", "Lavalink")
}
