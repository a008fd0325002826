package lavalink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeVoice struct {
	mu    sync.Mutex
	joins []string
}

func (f *fakeVoice) ChannelVoiceJoinManual(guildID, channelID string, mute, deaf bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins = append(f.joins, guildID+":"+channelID)
	return nil
}

type recordedRequest struct {
	method string
	path   string
	body   string
}

type fakeNode struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeNode(t *testing.T) *fakeNode {
	n := &fakeNode{}
	n.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		n.mu.Lock()
		n.requests = append(n.requests, recordedRequest{r.Method, r.URL.Path, string(body)})
		n.mu.Unlock()

		if r.Header.Get("Authorization") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/v4/loadtracks" {
			io.WriteString(w, `{"loadType":"search","data":[{"encoded":"x","info":{"title":"`+r.URL.Query().Get("identifier")+`"}}]}`)
			return
		}
		io.WriteString(w, `{}`)
	}))
	t.Cleanup(n.Close)
	return n
}

func (n *fakeNode) last() recordedRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.requests) == 0 {
		return recordedRequest{}
	}
	return n.requests[len(n.requests)-1]
}

func newTestClient(t *testing.T) (*Client, *fakeNode, *fakeVoice) {
	node := newFakeNode(t)
	voice := &fakeVoice{}
	c := NewClient(voice, Options{IdleTimeout: 5 * time.Minute})
	c.rest = newRESTClient(node.URL, "secret")
	c.handleMessage([]byte(`{"op":"ready","resumed":false,"sessionId":"sess"}`))
	return c, node, voice
}

func TestNotReady(t *testing.T) {
	c := NewClient(&fakeVoice{}, Options{})
	if _, err := c.Search(context.Background(), "x"); err != ErrNotReady {
		t.Errorf("Search() error = %v, want %v", err, ErrNotReady)
	}
	if _, err := c.Play(context.Background(), "g", "v", "t", track("a")); err != ErrNotReady {
		t.Errorf("Play() error = %v, want %v", err, ErrNotReady)
	}
}

func TestSearch(t *testing.T) {
	c, _, _ := newTestClient(t)

	res, err := c.Search(context.Background(), "lofi")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Tracks) != 1 || res.Tracks[0].Info.Title != "ytsearch:lofi" {
		t.Errorf("Search() tracks = %+v", res.Tracks)
	}
}

func TestPlayQueueAndAdvance(t *testing.T) {
	c, node, voice := newTestClient(t)
	ctx := context.Background()

	started, err := c.Play(ctx, "g", "voice", "text", track("a"))
	if err != nil || started == nil {
		t.Fatalf("Play() = %v, %v", started, err)
	}
	if req := node.last(); req.method != http.MethodPatch || req.path != "/v4/sessions/sess/players/g" || !strings.Contains(req.body, `"encoded":"enc-a"`) {
		t.Errorf("play request = %+v", req)
	}
	if len(voice.joins) != 1 || voice.joins[0] != "g:voice" {
		t.Errorf("voice joins = %v", voice.joins)
	}

	if started, _ := c.Play(ctx, "g", "voice", "text", track("b")); started != nil {
		t.Errorf("second Play() started %v, want queued", started)
	}
	if len(voice.joins) != 1 {
		t.Error("Play() in the same channel should not rejoin")
	}

	c.handleMessage([]byte(`{"op":"event","type":"TrackEndEvent","guildId":"g","reason":"replaced"}`))
	if snap, _ := c.Player("g"); snap.Current.Info.Identifier != "a" {
		t.Errorf("replaced event advanced the queue to %s", snap.Current.Info.Identifier)
	}

	c.handleMessage([]byte(`{"op":"event","type":"TrackEndEvent","guildId":"g","reason":"finished"}`))
	snap, _ := c.Player("g")
	if snap.Current == nil || snap.Current.Info.Identifier != "b" {
		t.Fatalf("current after finish = %+v, want b", snap.Current)
	}
	if req := node.last(); !strings.Contains(req.body, `"encoded":"enc-b"`) {
		t.Errorf("next track request = %+v", req)
	}

	c.handleMessage([]byte(`{"op":"playerUpdate","guildId":"g","state":{"position":4200,"connected":true}}`))
	if snap, _ := c.Player("g"); snap.Position != 4200 {
		t.Errorf("Position = %v, want %v", snap.Position, 4200)
	}
}

func TestSkipToEmptyQueueStops(t *testing.T) {
	c, node, _ := newTestClient(t)
	ctx := context.Background()
	c.Play(ctx, "g", "voice", "text", track("a"))

	next, err := c.Skip(ctx, "g")
	if err != nil || next != nil {
		t.Fatalf("Skip() = %v, %v, want nil, nil", next, err)
	}
	if req := node.last(); !strings.Contains(req.body, `"encoded":null`) {
		t.Errorf("stop request = %+v", req)
	}
	if _, err := c.Skip(ctx, "g"); err != ErrNothingPlaying {
		t.Errorf("Skip() on idle player error = %v, want %v", err, ErrNothingPlaying)
	}
}

func TestVolumeAndSeek(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	if err := c.SetVolume(ctx, "g", 50); err != ErrNoPlayer {
		t.Errorf("SetVolume() without player error = %v, want %v", err, ErrNoPlayer)
	}
	c.Play(ctx, "g", "voice", "text", track("a"))

	if err := c.SetVolume(ctx, "g", 101); err != ErrInvalidVolume {
		t.Errorf("SetVolume(101) error = %v, want %v", err, ErrInvalidVolume)
	}
	if err := c.SetVolume(ctx, "g", 40); err != nil {
		t.Errorf("SetVolume(40) error = %v", err)
	}
	if snap, _ := c.Player("g"); snap.Volume != 40 {
		t.Errorf("Volume = %v, want %v", snap.Volume, 40)
	}

	if err := c.Seek(ctx, "g", time.Hour); err != ErrSeekOutOfRange {
		t.Errorf("Seek(1h) error = %v, want %v", err, ErrSeekOutOfRange)
	}
	if err := c.Seek(ctx, "g", time.Minute); err != nil {
		t.Errorf("Seek(1m) error = %v", err)
	}
	if snap, _ := c.Player("g"); snap.Position != 60000 {
		t.Errorf("Position = %v, want %v", snap.Position, 60000)
	}
}

func TestSeekWhileDestroyed(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		c.Play(ctx, "g", "voice", "text", track("a"))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Destroy(ctx, "g")
		}()
		go func() {
			defer wg.Done()
			if err := c.Seek(ctx, "g", time.Second); err != nil && err != ErrNoPlayer && err != ErrNothingPlaying {
				t.Errorf("Seek() during Destroy error = %v", err)
			}
		}()
		wg.Wait()
	}
}

func TestStopLeavesVoice(t *testing.T) {
	c, node, voice := newTestClient(t)
	ctx := context.Background()

	if err := c.Stop(ctx, "g"); err != ErrNoPlayer {
		t.Errorf("Stop() without player error = %v, want %v", err, ErrNoPlayer)
	}

	c.Play(ctx, "g", "voice", "text", track("a"))
	if err := c.Stop(ctx, "g"); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if req := node.last(); req.method != http.MethodDelete {
		t.Errorf("last request = %+v, want DELETE", req)
	}
	if got := voice.joins[len(voice.joins)-1]; got != "g:" {
		t.Errorf("last voice join = %q, want leave", got)
	}
	if c.PlayerCount() != 0 {
		t.Error("Stop() should remove the player")
	}
}

func TestSweepIdle(t *testing.T) {
	c, _, _ := newTestClient(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Play(ctx, "busy", "voice", "text", track("a"))
	c.Join("idle", "voice", "text")

	now = now.Add(4 * time.Minute)
	if n := c.SweepIdle(ctx); n != 0 {
		t.Errorf("SweepIdle() before timeout = %v, want 0", n)
	}

	now = now.Add(2 * time.Minute)
	if n := c.SweepIdle(ctx); n != 1 {
		t.Errorf("SweepIdle() = %v, want 1", n)
	}
	if _, ok := c.Player("busy"); !ok {
		t.Error("playing player must survive the sweep")
	}
	if _, ok := c.Player("idle"); ok {
		t.Error("idle player should be destroyed")
	}
}
