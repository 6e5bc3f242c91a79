package ws

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"parceltrack/internal/adapters/in/auth"
	"parceltrack/internal/pkg/errs"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is served behind a gateway that enforces origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests to websocket connections and
// hands them to the hub.
type Handler struct {
	hub        *Hub
	tokens     *auth.TokenParser
	authorizer SubscriptionAuthorizer
	logger     *slog.Logger
}

func NewHandler(hub *Hub, tokens *auth.TokenParser, authorizer SubscriptionAuthorizer, logger *slog.Logger) (*Handler, error) {
	if hub == nil {
		return nil, errs.NewValueIsRequiredError("hub")
	}
	if tokens == nil {
		return nil, errs.NewValueIsRequiredError("tokens")
	}
	return &Handler{hub: hub, tokens: tokens, authorizer: authorizer, logger: logger}, nil
}

// Serve handles GET /ws. Browsers cannot set headers on websocket
// requests, so the token is taken from the "token" query parameter with
// the Authorization header as a fallback.
func (h *Handler) Serve(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		tokenString = strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	}
	act, err := h.tokens.ParseToken(tokenString)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn("websocket upgrade", "error", err)
		return nil
	}

	client := newClient(h.hub, conn, act, h.authorizer, h.logger)
	h.hub.register(client)

	// Every authenticated connection starts on its own user channel;
	// admins also get the admin channel. Parcel channels are joined
	// explicitly per subscription request.
	h.hub.subscribe(client, UserChannel(act.ID()))
	if act.IsAdmin() {
		h.hub.subscribe(client, AdminChannel)
	}

	go client.writePump()
	go client.readPump()
	return nil
}
