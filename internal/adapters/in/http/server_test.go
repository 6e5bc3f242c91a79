package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceltrack/internal/adapters/in/auth"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
	"parceltrack/internal/pkg/errs"
)

const testSecret = "integration-test-secret"

func signToken(t *testing.T, userID kernel.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// fakeParcelStore is a map-backed stand-in for the postgres adapters so
// handler tests can exercise the full request path without a database.
type fakeParcelStore struct {
	parcels map[string]*parcel.Parcel
	history []history.Entry
	nextSeq uint64
}

func newFakeParcelStore() *fakeParcelStore {
	return &fakeParcelStore{parcels: make(map[string]*parcel.Parcel)}
}

type fakeParcelRepo struct{ store *fakeParcelStore }

func (r fakeParcelRepo) Add(_ context.Context, aggregate *parcel.Parcel) error {
	r.store.parcels[aggregate.TrackingID().String()] = aggregate
	return nil
}

func (r fakeParcelRepo) Update(_ context.Context, aggregate *parcel.Parcel) error {
	key := aggregate.TrackingID().String()
	if _, ok := r.store.parcels[key]; !ok {
		return errs.NewObjectNotFoundError("parcelID", aggregate.ID())
	}
	r.store.parcels[key] = aggregate
	return nil
}

func (r fakeParcelRepo) Get(_ context.Context, id kernel.UUID) (*parcel.Parcel, error) {
	for _, prcl := range r.store.parcels {
		if prcl.ID().IsEqual(id) {
			return prcl, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("parcelID", id)
}

func (r fakeParcelRepo) GetByTrackingID(_ context.Context, trackingID kernel.TrackingID) (*parcel.Parcel, error) {
	prcl, ok := r.store.parcels[trackingID.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("trackingID", trackingID.String())
	}
	return prcl, nil
}

func (r fakeParcelRepo) GetByTrackingIDForUpdate(ctx context.Context, trackingID kernel.TrackingID) (*parcel.Parcel, error) {
	return r.GetByTrackingID(ctx, trackingID)
}

func (r fakeParcelRepo) GetAllForCustomer(_ context.Context, _ kernel.UUID, _, _ int) ([]*parcel.Parcel, error) {
	return nil, nil
}

func (r fakeParcelRepo) GetAllForAgent(_ context.Context, _ kernel.UUID, _, _ int) ([]*parcel.Parcel, error) {
	return nil, nil
}

func (r fakeParcelRepo) GetAll(_ context.Context, _, _ int) ([]*parcel.Parcel, error) {
	return nil, nil
}

func (r fakeParcelRepo) GetAllUnassigned(_ context.Context, _ time.Time) ([]*parcel.Parcel, error) {
	return nil, nil
}

func (r fakeParcelRepo) GetAllInTransitSince(_ context.Context, _ time.Time) ([]*parcel.Parcel, error) {
	return nil, nil
}

type fakeHistoryRepo struct{ store *fakeParcelStore }

func (r fakeHistoryRepo) Append(_ context.Context, entry history.Entry) (history.Entry, error) {
	r.store.nextSeq++
	stored, err := history.RestoreEntry(r.store.nextSeq, entry.Parcel(), entry.Status(),
		entry.Location(), entry.Actor(), entry.Note(), entry.CreatedAt())
	if err != nil {
		return history.Entry{}, err
	}
	r.store.history = append(r.store.history, stored)
	return stored, nil
}

func (r fakeHistoryRepo) GetAllForParcel(_ context.Context, parcelID kernel.UUID) ([]history.Entry, error) {
	var entries []history.Entry
	for _, entry := range r.store.history {
		if entry.Parcel().IsEqual(parcelID) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type fakeUoW struct{ store *fakeParcelStore }

func (u fakeUoW) Begin(_ context.Context) error               { return nil }
func (u fakeUoW) Commit(_ context.Context) error              { return nil }
func (u fakeUoW) Rollback(_ context.Context) error            { return nil }
func (u fakeUoW) ParcelRepository() ports.ParcelRepository    { return fakeParcelRepo{store: u.store} }
func (u fakeUoW) HistoryRepository() ports.HistoryRepository  { return fakeHistoryRepo{store: u.store} }

type fakeUoWFactory struct{ store *fakeParcelStore }

func (f fakeUoWFactory) Create() commands.UoW { return fakeUoW{store: f.store} }

type capturingPublisher struct{ events []ports.ParcelEvent }

func (p *capturingPublisher) Publish(event ports.ParcelEvent) {
	p.events = append(p.events, event)
}

type fakeUserDirectory struct{ roles map[string]actor.Role }

func (d fakeUserDirectory) GetRole(_ context.Context, userID kernel.UUID) (actor.Role, error) {
	role, ok := d.roles[userID.String()]
	if !ok {
		return actor.RoleUnknown, errs.NewObjectNotFoundError("userID", userID)
	}
	return role, nil
}

// stubSnapshotCache serves tracking snapshots seeded by tests, keeping the
// tracking route exercisable without a database.
type stubSnapshotCache struct {
	snapshots map[string]queries.TrackParcelQueryResponse
}

func (s *stubSnapshotCache) Get(_ context.Context, trackingID string) (queries.TrackParcelQueryResponse, bool, error) {
	snapshot, ok := s.snapshots[trackingID]
	return snapshot, ok, nil
}

func (s *stubSnapshotCache) Set(_ context.Context, trackingID string, snapshot queries.TrackParcelQueryResponse) error {
	s.snapshots[trackingID] = snapshot
	return nil
}

type testEnv struct {
	echo      *echo.Echo
	store     *fakeParcelStore
	publisher *capturingPublisher
	users     fakeUserDirectory
	snapshots *stubSnapshotCache
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store := newFakeParcelStore()
	publisher := &capturingPublisher{}
	factory := fakeUoWFactory{store: store}
	users := fakeUserDirectory{roles: make(map[string]actor.Role)}
	snapshots := &stubSnapshotCache{snapshots: make(map[string]queries.TrackParcelQueryResponse)}

	// Other query handlers hit the database directly and are covered by
	// their own integration tests; the zero values keep the routes mounted.
	server := NewServer(
		commands.NewBookParcelCommandHandler(factory, publisher),
		commands.NewAssignAgentCommandHandler(factory, publisher, users),
		commands.NewBulkAssignAgentsCommandHandler(
			commands.NewAssignAgentCommandHandler(factory, publisher, users)),
		commands.NewUpdateParcelStatusCommandHandler(factory, publisher),
		commands.NewUpdateParcelLocationCommandHandler(factory, publisher),
		commands.NewCancelParcelCommandHandler(factory, publisher),
		queries.NewTrackParcelQueryHandler(nil, snapshots),
		queries.GetParcelHistoryQueryHandler{},
		queries.GetParcelsQueryHandler{},
		queries.GetUnassignedParcelsQueryHandler{},
	)

	tokens, err := auth.NewTokenParser(testSecret)
	require.NoError(t, err)

	e := echo.New()
	server.RegisterRoutes(e, NewAuthMiddleware(tokens))
	return testEnv{echo: e, store: store, publisher: publisher, users: users, snapshots: snapshots}
}

func (env testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RejectsGarbageToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", "not-a-jwt", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RejectsWrongSignature(t *testing.T) {
	env := newTestEnv(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  kernel.NewUUID().String(),
		"role": "customer",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", signed, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth_NeedsNoToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTrackParcel_NeedsNoToken(t *testing.T) {
	env := newTestEnv(t)
	trackingID := kernel.NewTrackingID()
	env.snapshots.snapshots[trackingID.String()] = queries.TrackParcelQueryResponse{
		TrackingID: trackingID.String(),
		Status:     "in-transit",
	}

	rec := env.do(t, http.MethodGet, "/api/v1/track/"+trackingID.String(), "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot queries.TrackParcelQueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "in-transit", snapshot.Status)
}

func validBookingRequest() bookParcelRequest {
	return bookParcelRequest{
		PickupAddress:   addressRequest{Line: "12 Pickup Lane"},
		DeliveryAddress: addressRequest{Line: "99 Delivery Road"},
		ParcelType:      "box",
		Size:            "medium",
	}
}

func TestBookParcel_CreatesParcelAndPublishes(t *testing.T) {
	env := newTestEnv(t)
	customerID := kernel.NewUUID()
	token := signToken(t, customerID, "customer")

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", token, validBookingRequest())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TrackingID)

	prcl, ok := env.store.parcels[resp.TrackingID]
	require.True(t, ok)
	assert.True(t, prcl.Customer().IsEqual(customerID))
	assert.Equal(t, parcel.Booked, prcl.Status())
	require.Len(t, env.publisher.events, 1)
	assert.Equal(t, uint64(1), env.publisher.events[0].LastSequence())
}

func TestBookParcel_RejectsUnknownSize(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, kernel.NewUUID(), "customer")
	req := validBookingRequest()
	req.Size = "gigantic"

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", token, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookParcel_RejectsCODWithoutAmount(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, kernel.NewUUID(), "customer")
	req := validBookingRequest()
	req.IsCOD = true

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", token, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookParcel_CustomerCannotBookForAnother(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, kernel.NewUUID(), "customer")
	req := validBookingRequest()
	req.CustomerID = kernel.NewUUID().String()

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", token, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBookParcel_AdminBooksOnBehalfOfCustomer(t *testing.T) {
	env := newTestEnv(t)
	customerID := kernel.NewUUID()
	token := signToken(t, kernel.NewUUID(), "admin")
	req := validBookingRequest()
	req.CustomerID = customerID.String()

	rec := env.do(t, http.MethodPost, "/api/v1/parcels", token, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, env.store.parcels[resp.TrackingID].Customer().IsEqual(customerID))
}

func TestCancelParcel_OwnerCancelsWithReason(t *testing.T) {
	env := newTestEnv(t)
	customerID := kernel.NewUUID()
	token := signToken(t, customerID, "customer")

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", token, validBookingRequest())
	require.Equal(t, http.StatusCreated, booked.Code)
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodPatch, "/api/v1/parcels/"+resp.TrackingID+"/cancel", token,
		cancelParcelRequest{Reason: "changed my mind about this delivery"})

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, parcel.Cancelled, env.store.parcels[resp.TrackingID].Status())
	require.Len(t, env.publisher.events, 2)
	assert.Equal(t, uint64(2), env.publisher.events[1].LastSequence())
}

func TestCancelParcel_RejectsShortReason(t *testing.T) {
	env := newTestEnv(t)
	customerID := kernel.NewUUID()
	token := signToken(t, customerID, "customer")

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", token, validBookingRequest())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodPatch, "/api/v1/parcels/"+resp.TrackingID+"/cancel", token,
		cancelParcelRequest{Reason: "typo"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelParcel_StrangerGetsForbidden(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := signToken(t, kernel.NewUUID(), "customer")
	strangerToken := signToken(t, kernel.NewUUID(), "customer")

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", ownerToken, validBookingRequest())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodPatch, "/api/v1/parcels/"+resp.TrackingID+"/cancel", strangerToken,
		cancelParcelRequest{Reason: "changed my mind about this delivery"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAssignAgent_AdminAssignsRegisteredAgent(t *testing.T) {
	env := newTestEnv(t)
	customerToken := signToken(t, kernel.NewUUID(), "customer")
	adminToken := signToken(t, kernel.NewUUID(), "admin")
	agentID := kernel.NewUUID()
	env.users.roles[agentID.String()] = actor.RoleAgent

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", customerToken, validBookingRequest())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodPatch, "/api/v1/admin/parcels/"+resp.TrackingID+"/assign-agent",
		adminToken, assignAgentRequest{AgentID: agentID.String()})

	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	prcl := env.store.parcels[resp.TrackingID]
	require.NotNil(t, prcl.Agent())
	assert.True(t, prcl.Agent().IsEqual(agentID))
	assert.Equal(t, parcel.Assigned, prcl.Status())
}

func TestAssignAgent_CustomerIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	customerToken := signToken(t, kernel.NewUUID(), "customer")

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", customerToken, validBookingRequest())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodPatch, "/api/v1/admin/parcels/"+resp.TrackingID+"/assign-agent",
		customerToken, assignAgentRequest{AgentID: kernel.NewUUID().String()})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAssignAgent_TargetMustBeAgent(t *testing.T) {
	env := newTestEnv(t)
	customerToken := signToken(t, kernel.NewUUID(), "customer")
	adminToken := signToken(t, kernel.NewUUID(), "admin")
	targetID := kernel.NewUUID()
	env.users.roles[targetID.String()] = actor.RoleCustomer

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", customerToken, validBookingRequest())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))

	rec := env.do(t, http.MethodPatch, "/api/v1/admin/parcels/"+resp.TrackingID+"/assign-agent",
		adminToken, assignAgentRequest{AgentID: targetID.String()})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBulkAssignAgents_ReportsPerParcelOutcomes(t *testing.T) {
	env := newTestEnv(t)
	customerToken := signToken(t, kernel.NewUUID(), "customer")
	adminToken := signToken(t, kernel.NewUUID(), "admin")
	agentID := kernel.NewUUID()
	env.users.roles[agentID.String()] = actor.RoleAgent

	booked := env.do(t, http.MethodPost, "/api/v1/parcels", customerToken, validBookingRequest())
	var resp bookParcelResponse
	require.NoError(t, json.Unmarshal(booked.Body.Bytes(), &resp))
	missingTrackingID := kernel.NewTrackingID().String()

	rec := env.do(t, http.MethodPost, "/api/v1/admin/parcels/bulk-assign", adminToken,
		bulkAssignAgentsRequest{Assignments: []agentAssignmentRequest{
			{TrackingID: resp.TrackingID, AgentID: agentID.String()},
			{TrackingID: missingTrackingID, AgentID: agentID.String()},
		}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result bulkAssignAgentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Results, 2)
	assert.True(t, result.Results[0].Assigned)
	assert.False(t, result.Results[1].Assigned)
	assert.NotEmpty(t, result.Results[1].Error)

	prcl := env.store.parcels[resp.TrackingID]
	require.NotNil(t, prcl.Agent())
	assert.True(t, prcl.Agent().IsEqual(agentID))
	assert.Equal(t, parcel.Assigned, prcl.Status())
}

func TestBulkAssignAgents_CustomerIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	customerToken := signToken(t, kernel.NewUUID(), "customer")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/parcels/bulk-assign", customerToken,
		bulkAssignAgentsRequest{Assignments: []agentAssignmentRequest{
			{TrackingID: kernel.NewTrackingID().String(), AgentID: kernel.NewUUID().String()},
		}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBulkAssignAgents_EmptyBatchIsRejected(t *testing.T) {
	env := newTestEnv(t)
	adminToken := signToken(t, kernel.NewUUID(), "admin")

	rec := env.do(t, http.MethodPost, "/api/v1/admin/parcels/bulk-assign", adminToken,
		bulkAssignAgentsRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateParcelStatus_UnknownParcelIs404(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, kernel.NewUUID(), "admin")

	rec := env.do(t, http.MethodPost, "/api/v1/parcels/"+kernel.NewTrackingID().String()+"/status",
		token, updateStatusRequest{Status: "picked-up"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateParcelStatus_UnknownStatusIs400(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, kernel.NewUUID(), "admin")

	rec := env.do(t, http.MethodPost, "/api/v1/parcels/"+kernel.NewTrackingID().String()+"/status",
		token, updateStatusRequest{Status: "teleported"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateParcelLocation_RejectsOutOfRangeCoordinates(t *testing.T) {
	env := newTestEnv(t)
	token := signToken(t, kernel.NewUUID(), "admin")

	rec := env.do(t, http.MethodPatch, "/api/v1/parcels/"+kernel.NewTrackingID().String()+"/location",
		token, geoPointRequest{Lat: 123.0, Lng: 45.0})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
