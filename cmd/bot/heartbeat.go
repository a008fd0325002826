package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/PancyStudios/SentryBot/pkg/config"
	"github.com/PancyStudios/SentryBot/pkg/errors"
	"github.com/PancyStudios/SentryBot/pkg/logger"
	"github.com/PancyStudios/SentryBot/pkg/mqtt"
)

// Stats is the payload of the periodic heartbeat.
type Stats struct {
	Version     string    `json:"version"`
	Ready       bool      `json:"ready"`
	Guilds      int       `json:"guilds"`
	Members     int       `json:"members"`
	Players     int       `json:"players"`
	Goroutines  int       `json:"goroutines"`
	MemoryBytes uint64    `json:"memoryBytes"`
	UptimeSec   int64     `json:"uptimeSeconds"`
	SentAt      time.Time `json:"sentAt"`
}

type botStats interface {
	IsReady() bool
	GuildCount() int
	MemberCount() int
	Uptime() time.Duration
}

type playerStats interface {
	PlayerCount() int
}

// Heartbeat publishes Stats to mqtt.StatsTopic on a cron schedule.
type Heartbeat struct {
	scheduler *cron.Cron
	pub       mqtt.Publisher
	bot       botStats
	players   playerStats
	now       func() time.Time
}

// StartHeartbeat schedules a heartbeat every interval. players may be nil.
func StartHeartbeat(pub mqtt.Publisher, bot botStats, players playerStats, interval time.Duration) (*Heartbeat, error) {
	h := newHeartbeat(pub, bot, players)
	if _, err := h.scheduler.AddFunc(fmt.Sprintf("@every %s", interval), h.beat); err != nil {
		return nil, err
	}
	h.scheduler.Start()
	return h, nil
}

func newHeartbeat(pub mqtt.Publisher, bot botStats, players playerStats) *Heartbeat {
	return &Heartbeat{
		scheduler: cron.New(),
		pub:       pub,
		bot:       bot,
		players:   players,
		now:       time.Now,
	}
}

// Stop cancels future heartbeats.
func (h *Heartbeat) Stop() {
	h.scheduler.Stop()
}

func (h *Heartbeat) snapshot() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := Stats{
		Version:     config.Version,
		Ready:       h.bot.IsReady(),
		Guilds:      h.bot.GuildCount(),
		Members:     h.bot.MemberCount(),
		Goroutines:  runtime.NumGoroutine(),
		MemoryBytes: m.Alloc,
		UptimeSec:   int64(h.bot.Uptime().Seconds()),
		SentAt:      h.now().UTC(),
	}
	if h.players != nil {
		s.Players = h.players.PlayerCount()
	}
	return s
}

func (h *Heartbeat) beat() {
	defer errors.Recover("Heartbeat")
	if !h.pub.IsConnected() {
		return
	}
	if err := h.pub.Publish(mqtt.StatsTopic(), h.snapshot()); err != nil {
		logger.Debug("Stats heartbeat dropped: "+err.Error(), "Heartbeat")
	}
}
