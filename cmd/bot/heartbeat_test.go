package main

import (
	"testing"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/mqtt"
)

type fakePublisher struct {
	connected bool
	topics    []string
	payloads  []interface{}
}

func (f *fakePublisher) Publish(topic string, payload interface{}) error {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) IsConnected() bool { return f.connected }

type fakeBot struct{}

func (fakeBot) IsReady() bool         { return true }
func (fakeBot) GuildCount() int       { return 3 }
func (fakeBot) MemberCount() int      { return 120 }
func (fakeBot) Uptime() time.Duration { return 90 * time.Second }

type fakePlayers int

func (f fakePlayers) PlayerCount() int { return int(f) }

func TestHeartbeatPublishesStats(t *testing.T) {
	pub := &fakePublisher{connected: true}
	h := newHeartbeat(pub, fakeBot{}, fakePlayers(2))
	fixed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	h.beat()

	if len(pub.topics) != 1 || pub.topics[0] != mqtt.StatsTopic() {
		t.Fatalf("topics = %v, want [%s]", pub.topics, mqtt.StatsTopic())
	}
	s, ok := pub.payloads[0].(Stats)
	if !ok {
		t.Fatalf("payload type = %T, want Stats", pub.payloads[0])
	}
	if s.Guilds != 3 || s.Members != 120 || s.Players != 2 || s.UptimeSec != 90 || !s.SentAt.Equal(fixed) {
		t.Errorf("Stats = %+v", s)
	}
}

func TestHeartbeatSkipsWhenOffline(t *testing.T) {
	pub := &fakePublisher{}
	newHeartbeat(pub, fakeBot{}, nil).beat()
	if len(pub.topics) != 0 {
		t.Errorf("published %d messages while offline", len(pub.topics))
	}
}

func TestHeartbeatWithoutPlayers(t *testing.T) {
	if got := newHeartbeat(&fakePublisher{}, fakeBot{}, nil).snapshot().Players; got != 0 {
		t.Errorf("Players = %v, want 0", got)
	}
}
