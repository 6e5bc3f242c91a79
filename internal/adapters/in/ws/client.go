package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/pkg/errs"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 32
)

// ParcelFinder loads a parcel for subscription authorization checks.
type ParcelFinder interface {
	GetByTrackingID(ctx context.Context, trackingID kernel.TrackingID) (*parcel.Parcel, error)
}

// SubscriptionAuthorizer decides whether an actor may join a channel.
type SubscriptionAuthorizer struct {
	parcels ParcelFinder
	policy  services.AccessPolicy
}

func NewSubscriptionAuthorizer(parcels ParcelFinder, policy services.AccessPolicy) (SubscriptionAuthorizer, error) {
	if parcels == nil {
		return SubscriptionAuthorizer{}, errs.NewValueIsRequiredError("parcels")
	}
	return SubscriptionAuthorizer{parcels: parcels, policy: policy}, nil
}

func (a SubscriptionAuthorizer) Authorize(ctx context.Context, act actor.Actor, ch Channel) error {
	switch {
	case ch == AdminChannel:
		if !act.IsAdmin() {
			return errs.NewNotAuthorizedError("subscribe to admin channel")
		}
		return nil
	case strings.HasPrefix(string(ch), "user:"):
		if act.IsAdmin() || string(ch) == string(UserChannel(act.ID())) {
			return nil
		}
		return errs.NewNotAuthorizedError("subscribe to another user's channel")
	case strings.HasPrefix(string(ch), "parcel:"):
		trackingID, err := kernel.TrackingIDFromString(strings.TrimPrefix(string(ch), "parcel:"))
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("channel", err)
		}
		prcl, err := a.parcels.GetByTrackingID(ctx, trackingID)
		if err != nil {
			return err
		}
		return a.policy.CanView(act, prcl)
	default:
		return errs.NewValueIsInvalidError("channel")
	}
}

// clientRequest is the only frame clients send: join or leave a channel.
type clientRequest struct {
	Action  string `json:"action"`
	Channel string `json:"channel"`
}

type ackMessage struct {
	Type    string `json:"type"`
	Channel string `json:"channel,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client is one websocket connection. The hub writes frames into send;
// writePump drains it onto the wire.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	actor      actor.Actor
	authorizer SubscriptionAuthorizer
	logger     *slog.Logger

	send     chan []byte
	channels map[Channel]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, act actor.Actor, authorizer SubscriptionAuthorizer, logger *slog.Logger) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		actor:      act,
		authorizer: authorizer,
		logger:     logger,
		send:       make(chan []byte, sendBufferSize),
		channels:   make(map[Channel]struct{}),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read", "userId", c.actor.ID().String(), "error", err)
			}
			return
		}
		c.handleRequest(raw)
	}
}

func (c *Client) handleRequest(raw []byte) {
	var req clientRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.reply(ackMessage{Type: "error", Message: "malformed request"})
		return
	}

	ch, err := ParseChannel(req.Channel)
	if err != nil {
		c.reply(ackMessage{Type: "error", Channel: req.Channel, Message: err.Error()})
		return
	}

	switch req.Action {
	case "subscribe":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.authorizer.Authorize(ctx, c.actor, ch)
		cancel()
		if err != nil {
			c.reply(ackMessage{Type: "error", Channel: req.Channel, Message: err.Error()})
			return
		}
		c.hub.subscribe(c, ch)
		c.reply(ackMessage{Type: "subscribed", Channel: req.Channel})
	case "unsubscribe":
		c.hub.unsubscribe(c, ch)
		c.reply(ackMessage{Type: "unsubscribed", Channel: req.Channel})
	default:
		c.reply(ackMessage{Type: "error", Message: "unknown action"})
	}
}

func (c *Client) reply(msg ackMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
