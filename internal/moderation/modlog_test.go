package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestModLoggerFanOut(t *testing.T) {
	received := make(chan string, 3)
	sink := func(name string, err error) Sink {
		return NewSink(name, func(_ context.Context, e Entry) error {
			received <- name
			return err
		})
	}
	l := NewModLogger(sink("a", nil), sink("b", errors.New("down")), sink("c", nil))

	d := l.Log(context.Background(), Entry{GuildID: "g", Kind: KindBan, Reason: "r"})
	advisories := d.Wait()

	if len(advisories) != 3 {
		t.Fatalf("len(advisories) = %v, want %v", len(advisories), 3)
	}
	for i, want := range []bool{true, false, true} {
		if advisories[i].OK() != want {
			t.Errorf("advisories[%d].OK() = %v, want %v", i, advisories[i].OK(), want)
		}
	}
	if len(received) != 3 {
		t.Errorf("sinks called = %v, want %v", len(received), 3)
	}
}

func TestModLoggerSinkPanic(t *testing.T) {
	l := NewModLogger(NewSink("boom", func(context.Context, Entry) error { panic("bad sink") }))

	advisories := l.Log(context.Background(), Entry{Kind: KindKick}).Wait()
	if len(advisories) != 1 || advisories[0].OK() {
		t.Errorf("advisories = %+v, want one failure", advisories)
	}
}

func TestModLoggerOutlivesCaller(t *testing.T) {
	done := make(chan error, 1)
	l := NewModLogger(NewSink("slow", func(ctx context.Context, _ Entry) error {
		time.Sleep(20 * time.Millisecond)
		done <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	d := l.Log(ctx, Entry{Kind: KindWarn})
	cancel()
	d.Wait()

	if err := <-done; err != nil {
		t.Errorf("sink context error = %v, want nil after caller cancelled", err)
	}
}

func TestDeliveryWaitNil(t *testing.T) {
	var d *Delivery
	if got := d.Wait(); got != nil {
		t.Errorf("nil Delivery Wait() = %v, want nil", got)
	}
}

func TestAttempt(t *testing.T) {
	if adv := Attempt("ok", func() error { return nil }); !adv.OK() || adv.Step != "ok" {
		t.Errorf("Attempt(ok) = %+v", adv)
	}
	if adv := Attempt("fail", func() error { return errors.New("dm closed") }); adv.OK() {
		t.Error("Attempt(fail).OK() = true, want false")
	}
	if adv := Attempt("panic", func() error { panic("x") }); adv.OK() {
		t.Error("Attempt(panic).OK() = true, want false")
	}
}

func TestEntryLine(t *testing.T) {
	e := Entry{
		Kind:      KindTimeout,
		Target:    Subject{ID: "1", Tag: "user#1"},
		Moderator: Subject{ID: "2", Tag: "mod#2"},
		Reason:    "spam",
		Extra:     "Duration: 5 minutes",
	}
	want := "Timeout | Target: user#1 (1) | Moderator: mod#2 | Reason: spam | Duration: 5 minutes"
	if got := e.Line(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestLogEmbed(t *testing.T) {
	e := Entry{
		Kind:   KindBan,
		Target: Subject{ID: "1", Tag: "user#1", AvatarURL: "https://cdn/avatar.png"},
		Reason: "raid",
		Extra:  "Deleted messages from the last 1 day(s)",
		At:     time.Unix(0, 0),
	}
	embed := LogEmbed(e)

	if embed.Title != "🔨 Ban Action" {
		t.Errorf("Title = %q", embed.Title)
	}
	if embed.Color != 0xff0000 {
		t.Errorf("Color = %#x, want %#x", embed.Color, 0xff0000)
	}
	if len(embed.Fields) != 4 || !strings.HasPrefix(embed.Fields[3].Value, "Deleted") {
		t.Errorf("Fields = %+v", embed.Fields)
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL != e.Target.AvatarURL {
		t.Errorf("Thumbnail = %+v", embed.Thumbnail)
	}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		kind  Kind
		name  string
		color int
	}{
		{KindBan, "Ban", 0xff0000},
		{KindKick, "Kick", 0xff9900},
		{KindTimeout, "Timeout", 0xffcc00},
		{KindWarn, "Warning", 0xffff00},
		{KindUnban, "Unban", 0x00ff00},
		{KindRemoveTimeout, "Remove Timeout", 0x00ffcc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StyleFor(tt.kind)
			if s.Name != tt.name || s.Color != tt.color {
				t.Errorf("StyleFor(%v) = %+v, want %s %#x", tt.kind, s, tt.name, tt.color)
			}
		})
	}
}
