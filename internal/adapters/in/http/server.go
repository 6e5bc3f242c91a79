// Package http exposes the parcel API over echo. Handlers translate
// requests into commands and queries and map domain errors onto HTTP
// status codes; all business rules live below this layer.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

// Server wires HTTP routes to the application's command and query handlers.
type Server struct {
	bookParcelHandler     commands.BookParcelCommandHandler
	assignAgentHandler    commands.AssignAgentCommandHandler
	bulkAssignHandler     commands.BulkAssignAgentsCommandHandler
	updateStatusHandler   commands.UpdateParcelStatusCommandHandler
	updateLocationHandler commands.UpdateParcelLocationCommandHandler
	cancelParcelHandler   commands.CancelParcelCommandHandler

	trackParcelHandler       queries.TrackParcelQueryHandler
	parcelHistoryHandler     queries.GetParcelHistoryQueryHandler
	listParcelsHandler       queries.GetParcelsQueryHandler
	unassignedParcelsHandler queries.GetUnassignedParcelsQueryHandler
}

func NewServer(
	bookParcelHandler commands.BookParcelCommandHandler,
	assignAgentHandler commands.AssignAgentCommandHandler,
	bulkAssignHandler commands.BulkAssignAgentsCommandHandler,
	updateStatusHandler commands.UpdateParcelStatusCommandHandler,
	updateLocationHandler commands.UpdateParcelLocationCommandHandler,
	cancelParcelHandler commands.CancelParcelCommandHandler,
	trackParcelHandler queries.TrackParcelQueryHandler,
	parcelHistoryHandler queries.GetParcelHistoryQueryHandler,
	listParcelsHandler queries.GetParcelsQueryHandler,
	unassignedParcelsHandler queries.GetUnassignedParcelsQueryHandler,
) *Server {
	return &Server{
		bookParcelHandler:        bookParcelHandler,
		assignAgentHandler:       assignAgentHandler,
		bulkAssignHandler:        bulkAssignHandler,
		updateStatusHandler:      updateStatusHandler,
		updateLocationHandler:    updateLocationHandler,
		cancelParcelHandler:      cancelParcelHandler,
		trackParcelHandler:       trackParcelHandler,
		parcelHistoryHandler:     parcelHistoryHandler,
		listParcelsHandler:       listParcelsHandler,
		unassignedParcelsHandler: unassignedParcelsHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1. Every route behind
// authMiddleware sees an authenticated actor on the request context; the
// tracking endpoint is public, the tracking identifier itself is the
// credential.
func (s *Server) RegisterRoutes(e *echo.Echo, authMiddleware echo.MiddlewareFunc) {
	e.GET("/health", s.Health)
	e.GET("/api/v1/track/:trackingId", s.TrackParcel)

	api := e.Group("/api/v1", authMiddleware)
	api.POST("/parcels", s.BookParcel)
	api.GET("/parcels", s.GetParcels)
	api.POST("/parcels/:trackingId/status", s.UpdateParcelStatus)
	api.PATCH("/parcels/:trackingId/location", s.UpdateParcelLocation)
	api.PATCH("/parcels/:trackingId/cancel", s.CancelParcel)
	api.GET("/parcels/:trackingId/history", s.GetParcelHistory)
	api.PATCH("/admin/parcels/:trackingId/assign-agent", s.AssignAgent)
	api.POST("/admin/parcels/bulk-assign", s.BulkAssignAgents)
	api.GET("/admin/parcels/unassigned", s.GetUnassignedParcels)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type geoPointRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type addressRequest struct {
	Line string           `json:"line"`
	Geo  *geoPointRequest `json:"geo,omitempty"`
}

func (r addressRequest) toDomain() (parcel.Address, error) {
	var point *kernel.GeoPoint
	if r.Geo != nil {
		p, err := kernel.NewGeoPoint(r.Geo.Lat, r.Geo.Lng)
		if err != nil {
			return parcel.Address{}, err
		}
		point = &p
	}
	return parcel.NewAddress(r.Line, point)
}

type bookParcelRequest struct {
	CustomerID      string         `json:"customerId,omitempty"`
	PickupAddress   addressRequest `json:"pickupAddress"`
	DeliveryAddress addressRequest `json:"deliveryAddress"`
	ParcelType      string         `json:"parcelType"`
	Size            string         `json:"size"`
	IsCOD           bool           `json:"isCod"`
	CODAmount       float64        `json:"codAmount"`
}

type bookParcelResponse struct {
	TrackingID string `json:"trackingId"`
}

// BookParcel handles POST /api/v1/parcels. Customers book for
// themselves; admins may book on behalf of a customer by passing
// customerId.
func (s *Server) BookParcel(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req bookParcelRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	customerID := act.ID()
	if req.CustomerID != "" {
		customerID, err = kernel.UUIDFromString(req.CustomerID)
		if err != nil {
			return respondError(c, errs.NewValueIsInvalidErrorWithCause("customerId", err))
		}
	}

	pickup, err := req.PickupAddress.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	delivery, err := req.DeliveryAddress.toDomain()
	if err != nil {
		return respondError(c, err)
	}
	parcelType, err := parcel.ParcelTypeFromString(req.ParcelType)
	if err != nil {
		return respondError(c, err)
	}
	size, err := parcel.SizeFromString(req.Size)
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewBookParcelCommand(
		kernel.NewUUID(), customerID, act,
		pickup, delivery, parcelType, size, req.IsCOD, req.CODAmount,
	)
	if err != nil {
		return respondError(c, err)
	}

	trackingID, err := s.bookParcelHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, bookParcelResponse{TrackingID: trackingID.String()})
}

type updateStatusRequest struct {
	Status   string           `json:"status"`
	Location *geoPointRequest `json:"location,omitempty"`
	Note     string           `json:"note,omitempty"`
}

// UpdateParcelStatus handles POST /api/v1/parcels/:trackingId/status.
func (s *Server) UpdateParcelStatus(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	trackingID, err := trackingIDFromPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	next, err := parcel.StatusFromString(req.Status)
	if err != nil {
		return respondError(c, err)
	}
	var location *kernel.GeoPoint
	if req.Location != nil {
		point, err := kernel.NewGeoPoint(req.Location.Lat, req.Location.Lng)
		if err != nil {
			return respondError(c, err)
		}
		location = &point
	}

	cmd, err := commands.NewUpdateParcelStatusCommand(trackingID, next, location, req.Note, act)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.updateStatusHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateParcelLocation handles PATCH /api/v1/parcels/:trackingId/location.
func (s *Server) UpdateParcelLocation(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	trackingID, err := trackingIDFromPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req geoPointRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	location, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewUpdateParcelLocationCommand(trackingID, location, act)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.updateLocationHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type cancelParcelRequest struct {
	Reason string `json:"reason"`
}

// CancelParcel handles PATCH /api/v1/parcels/:trackingId/cancel.
func (s *Server) CancelParcel(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	trackingID, err := trackingIDFromPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req cancelParcelRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewCancelParcelCommand(trackingID, req.Reason, act)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.cancelParcelHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type assignAgentRequest struct {
	AgentID string `json:"agentId"`
}

// AssignAgent handles PATCH /api/v1/admin/parcels/:trackingId/assign-agent.
func (s *Server) AssignAgent(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	trackingID, err := trackingIDFromPath(c)
	if err != nil {
		return respondError(c, err)
	}

	var req assignAgentRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	agentID, err := kernel.UUIDFromString(req.AgentID)
	if err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("agentId", err))
	}

	cmd, err := commands.NewAssignAgentCommand(trackingID, agentID, act)
	if err != nil {
		return respondError(c, err)
	}
	if err := s.assignAgentHandler.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type agentAssignmentRequest struct {
	TrackingID string `json:"trackingId"`
	AgentID    string `json:"agentId"`
}

type bulkAssignAgentsRequest struct {
	Assignments []agentAssignmentRequest `json:"assignments"`
}

type bulkAssignAgentsResponse struct {
	Results []commands.BulkAssignmentResult `json:"results"`
}

// BulkAssignAgents handles POST /api/v1/admin/parcels/bulk-assign. The
// response reports a per-parcel outcome; a malformed assignment rejects
// the whole request.
func (s *Server) BulkAssignAgents(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req bulkAssignAgentsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	assignments := make([]commands.AgentAssignment, 0, len(req.Assignments))
	for _, item := range req.Assignments {
		trackingID, err := kernel.TrackingIDFromString(item.TrackingID)
		if err != nil {
			return respondError(c, errs.NewValueIsInvalidErrorWithCause("trackingId", err))
		}
		agentID, err := kernel.UUIDFromString(item.AgentID)
		if err != nil {
			return respondError(c, errs.NewValueIsInvalidErrorWithCause("agentId", err))
		}
		assignment, err := commands.NewAgentAssignment(trackingID, agentID)
		if err != nil {
			return respondError(c, err)
		}
		assignments = append(assignments, assignment)
	}

	cmd, err := commands.NewBulkAssignAgentsCommand(assignments, act)
	if err != nil {
		return respondError(c, err)
	}
	results, err := s.bulkAssignHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, bulkAssignAgentsResponse{Results: results})
}

// TrackParcel handles GET /api/v1/track/:trackingId. No authentication:
// recipients follow their parcel with nothing but the tracking identifier.
func (s *Server) TrackParcel(c echo.Context) error {
	trackingID, err := trackingIDFromPath(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewTrackParcelQuery(trackingID)
	if err != nil {
		return respondError(c, err)
	}
	snapshot, err := s.trackParcelHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, snapshot)
}

// GetParcelHistory handles GET /api/v1/parcels/:trackingId/history.
func (s *Server) GetParcelHistory(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	trackingID, err := trackingIDFromPath(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetParcelHistoryQuery(trackingID, act)
	if err != nil {
		return respondError(c, err)
	}
	timeline, err := s.parcelHistoryHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, timeline)
}

type getParcelsParams struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Status string `query:"status"`
}

// GetParcels handles GET /api/v1/parcels.
func (s *Server) GetParcels(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	params := getParcelsParams{Page: 1}
	if err := c.Bind(&params); err != nil {
		return respondError(c, errs.NewValueIsInvalidErrorWithCause("query parameters", err))
	}

	query, err := queries.NewGetParcelsQuery(act, params.Page, params.Limit, params.Status)
	if err != nil {
		return respondError(c, err)
	}
	listing, err := s.listParcelsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, listing)
}

// GetUnassignedParcels handles GET /api/v1/admin/parcels/unassigned.
func (s *Server) GetUnassignedParcels(c echo.Context) error {
	act, err := actorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetUnassignedParcelsQuery(act)
	if err != nil {
		return respondError(c, err)
	}
	listing, err := s.unassignedParcelsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, listing)
}

func trackingIDFromPath(c echo.Context) (kernel.TrackingID, error) {
	trackingID, err := kernel.TrackingIDFromString(c.Param("trackingId"))
	if err != nil {
		return kernel.TrackingID{}, errs.NewValueIsInvalidErrorWithCause("trackingId", err)
	}
	return trackingID, nil
}
