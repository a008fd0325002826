package lavalink

import (
	"testing"
	"time"
)

func track(id string) *Track {
	return &Track{Encoded: "enc-" + id, Info: TrackInfo{Identifier: id, Title: "Track " + id, Length: 180000, IsSeekable: true}}
}

func currentID(p *Player) string {
	if s := p.Snapshot(); s.Current != nil {
		return s.Current.Info.Identifier
	}
	return ""
}

func TestEnqueue(t *testing.T) {
	p := newPlayer("g", time.Now())

	if start := p.enqueue(track("a"), track("b")); start == nil || start.Info.Identifier != "a" {
		t.Fatalf("enqueue() on idle player = %v, want a", start)
	}
	if start := p.enqueue(track("c")); start != nil {
		t.Errorf("enqueue() while playing = %v, want nil", start)
	}
	if got := len(p.Snapshot().Queue); got != 2 {
		t.Errorf("queue length = %v, want %v", got, 2)
	}
}

func TestAdvanceLoopModes(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		loop    LoopMode
		skipped bool
		want    []string
	}{
		{"off", LoopOff, false, []string{"b", "c", ""}},
		{"track finished", LoopTrack, false, []string{"a", "a", "a"}},
		{"track skipped", LoopTrack, true, []string{"b", "c", ""}},
		{"queue", LoopQueue, false, []string{"b", "c", "a", "b"}},
		{"queue skipped", LoopQueue, true, []string{"b", "c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayer("g", now)
			p.enqueue(track("a"), track("b"), track("c"))
			p.setLoop(tt.loop)

			for i, want := range tt.want {
				next := p.advance(tt.skipped, now)
				got := ""
				if next != nil {
					got = next.Info.Identifier
				}
				if got != want || currentID(p) != want {
					t.Errorf("advance #%d = %q (current %q), want %q", i, got, currentID(p), want)
				}
			}
		})
	}
}

func TestIdleFor(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := newPlayer("g", start)

	if got := p.idleFor(start.Add(time.Minute)); got != time.Minute {
		t.Errorf("idleFor(new player) = %v, want %v", got, time.Minute)
	}

	p.enqueue(track("a"))
	if got := p.idleFor(start.Add(time.Hour)); got != 0 {
		t.Errorf("idleFor(playing) = %v, want 0", got)
	}

	p.advance(false, start.Add(2*time.Hour))
	if got := p.idleFor(start.Add(2*time.Hour + 5*time.Minute)); got != 5*time.Minute {
		t.Errorf("idleFor(after queue end) = %v, want %v", got, 5*time.Minute)
	}
}

func TestShuffleAndClear(t *testing.T) {
	p := newPlayer("g", time.Now())
	p.enqueue(track("a"), track("b"), track("c"), track("d"))

	if n := p.shuffle(); n != 3 {
		t.Errorf("shuffle() = %v, want %v", n, 3)
	}
	seen := map[string]bool{}
	for _, tr := range p.Snapshot().Queue {
		seen[tr.Info.Identifier] = true
	}
	if len(seen) != 3 || !seen["b"] || !seen["c"] || !seen["d"] {
		t.Errorf("shuffle() lost tracks: %v", seen)
	}

	if n := p.clearQueue(); n != 3 {
		t.Errorf("clearQueue() = %v, want %v", n, 3)
	}
	if currentID(p) != "a" {
		t.Error("clearQueue() must keep the current track")
	}
}

func TestUpdateVoice(t *testing.T) {
	p := newPlayer("g", time.Now())

	if _, ok := p.updateVoice(VoiceState{SessionID: "s", ChannelID: "c"}); ok {
		t.Error("voice state without server info should be incomplete")
	}
	vs, ok := p.updateVoice(VoiceState{Token: "t", Endpoint: "e"})
	if !ok {
		t.Fatal("voice state should be complete")
	}
	want := VoiceState{Token: "t", Endpoint: "e", SessionID: "s", ChannelID: "c"}
	if vs != want {
		t.Errorf("updateVoice() = %+v, want %+v", vs, want)
	}
}

func TestParseLoopMode(t *testing.T) {
	for _, m := range []LoopMode{LoopOff, LoopTrack, LoopQueue} {
		got, ok := ParseLoopMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseLoopMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseLoopMode("forever"); ok {
		t.Error("ParseLoopMode(forever) should fail")
	}
}
