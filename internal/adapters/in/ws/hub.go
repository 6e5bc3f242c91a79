// Package ws pushes parcel timeline updates to connected clients over
// websocket. The hub implements ports.EventPublisher: command handlers
// hand it committed events and it fans them out to every channel the
// event touches.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"parceltrack/internal/core/ports"
)

// UpdateMessage is the frame pushed to subscribers after a parcel mutation.
type UpdateMessage struct {
	Event string     `json:"event"`
	Data  UpdateData `json:"data"`
}

type UpdateData struct {
	TrackingID string                 `json:"trackingId"`
	Status     string                 `json:"status"`
	History    []TimelineEntryMessage `json:"history"`
}

type TimelineEntryMessage struct {
	Sequence  uint64       `json:"sequence"`
	Status    string       `json:"status"`
	Location  *GeoPointDTO `json:"location,omitempty"`
	ActorID   string       `json:"actorId"`
	Note      string       `json:"note,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

type GeoPointDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Hub tracks connected clients and their channel subscriptions.
// All maps are guarded by mu; Publish never blocks on a slow client.
type Hub struct {
	logger *slog.Logger

	mu            sync.RWMutex
	clients       map[*Client]struct{}
	subscriptions map[Channel]map[*Client]struct{}
	// lastSeq holds the newest delivered sequence per tracking ID so an
	// event that lost the race to a newer commit is dropped instead of
	// rewinding subscribers.
	lastSeq map[string]uint64
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:        logger,
		clients:       make(map[*Client]struct{}),
		subscriptions: make(map[Channel]map[*Client]struct{}),
		lastSeq:       make(map[string]uint64),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for ch := range c.channels {
		h.removeSubscription(ch, c)
	}
	close(c.send)
}

func (h *Hub) subscribe(c *Client, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	set, ok := h.subscriptions[ch]
	if !ok {
		set = make(map[*Client]struct{})
		h.subscriptions[ch] = set
	}
	set[c] = struct{}{}
	c.channels[ch] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(c.channels, ch)
	h.removeSubscription(ch, c)
}

// removeSubscription expects mu to be held.
func (h *Hub) removeSubscription(ch Channel, c *Client) {
	set, ok := h.subscriptions[ch]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.subscriptions, ch)
	}
}

// Publish fans event out to the parcel channel, the customer's and the
// assigned agent's user channels and the admin channel. A client
// subscribed to several of those receives one copy. Stale events, ones
// whose newest sequence is not past what was already delivered for the
// parcel, are dropped.
func (h *Hub) Publish(event ports.ParcelEvent) {
	frame, err := json.Marshal(updateMessageFromEvent(event))
	if err != nil {
		h.logger.Error("marshal parcel event", "trackingId", event.TrackingID.String(), "error", err)
		return
	}

	channels := []Channel{
		ParcelChannel(event.TrackingID),
		UserChannel(event.CustomerID),
		AdminChannel,
	}
	if event.AgentID != nil {
		channels = append(channels, UserChannel(*event.AgentID))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	key := event.TrackingID.String()
	seq := event.LastSequence()
	if seq <= h.lastSeq[key] {
		return
	}
	if terminalEvent(event) {
		// No further commits follow a terminal status, so the guard
		// entry is no longer needed.
		delete(h.lastSeq, key)
	} else {
		h.lastSeq[key] = seq
	}

	recipients := make(map[*Client]struct{})
	for _, ch := range channels {
		for c := range h.subscriptions[ch] {
			recipients[c] = struct{}{}
		}
	}

	for c := range recipients {
		select {
		case c.send <- frame:
		default:
			// Slow consumer: drop the frame rather than block the
			// publishing command handler.
			h.logger.Warn("dropping update for slow client", "userId", c.actor.ID().String())
		}
	}
}

// NotifyAdmins pushes an ad-hoc notice to everyone on the admin channel.
// Scheduled jobs use it for operational alerts.
func (h *Hub) NotifyAdmins(event string, data any) {
	frame, err := json.Marshal(map[string]any{"event": event, "data": data})
	if err != nil {
		h.logger.Error("marshal admin notice", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.subscriptions[AdminChannel] {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("dropping admin notice for slow client", "userId", c.actor.ID().String())
		}
	}
}

func terminalEvent(event ports.ParcelEvent) bool {
	if len(event.History) == 0 {
		return false
	}
	return event.History[len(event.History)-1].Status().IsTerminal()
}

func updateMessageFromEvent(event ports.ParcelEvent) UpdateMessage {
	data := UpdateData{
		TrackingID: event.TrackingID.String(),
		History:    make([]TimelineEntryMessage, 0, len(event.History)),
	}
	for _, entry := range event.History {
		item := TimelineEntryMessage{
			Sequence:  entry.Sequence(),
			Status:    entry.Status().String(),
			ActorID:   entry.Actor().String(),
			Note:      entry.Note(),
			CreatedAt: entry.CreatedAt(),
		}
		if loc := entry.Location(); loc != nil {
			item.Location = &GeoPointDTO{Lat: loc.Lat(), Lng: loc.Lng()}
		}
		data.History = append(data.History, item)
	}
	if len(event.History) > 0 {
		data.Status = event.History[len(event.History)-1].Status().String()
	}
	return UpdateMessage{Event: "bookingHistoryUpdate", Data: data}
}
