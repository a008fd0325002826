package discord

import (
	"fmt"
	"sync"

	"github.com/PancyStudios/SentryBot/pkg/logger"
)

// EventHandler manages event registration
type EventHandler struct {
	client *ExtendedClient
	events []interface{}
	mu     sync.RWMutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		events: make([]interface{}, 0),
	}
}

// LoadEvents reports the registered handlers
func (eh *EventHandler) LoadEvents() error {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	logger.System(fmt.Sprintf("Loaded %d event handlers", len(eh.events)), "EventHandler")
	return nil
}

// RegisterEvent adds an event handler to the Discord session. handler must be
// a func(*discordgo.Session, *discordgo.<Event>).
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.events = append(eh.events, handler)
	eh.mu.Unlock()
}
