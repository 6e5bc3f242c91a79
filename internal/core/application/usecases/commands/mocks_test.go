package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(_ context.Context, _ kernel.UUID) (*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetByTrackingID(_ context.Context, _ kernel.TrackingID) (*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetByTrackingIDForUpdate(ctx context.Context, trackingID kernel.TrackingID) (*parcel.Parcel, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetAllForCustomer(_ context.Context, _ kernel.UUID, _, _ int) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetAllForAgent(_ context.Context, _ kernel.UUID, _, _ int) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetAll(_ context.Context, _, _ int) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetAllUnassigned(_ context.Context, _ time.Time) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetAllInTransitSince(_ context.Context, _ time.Time) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Append(ctx context.Context, entry history.Entry) (history.Entry, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) GetAllForParcel(ctx context.Context, parcelID kernel.UUID) ([]history.Entry, error) {
	args := m.Called(ctx, parcelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.Entry), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockEventPublisher struct {
	mock.Mock
	events []ports.ParcelEvent
}

func (m *MockEventPublisher) Publish(event ports.ParcelEvent) {
	m.events = append(m.events, event)
	m.Called(event)
}

type MockUserDirectory struct{ mock.Mock }

func (m *MockUserDirectory) GetRole(ctx context.Context, userID kernel.UUID) (actor.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(actor.Role), args.Error(1)
}

func actorWithRole(t *testing.T, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func bookedParcel(t *testing.T, customerID kernel.UUID) *parcel.Parcel {
	t.Helper()
	pickup, err := parcel.NewAddress("7 Dock Street", nil)
	require.NoError(t, err)
	delivery, err := parcel.NewAddress("19 Mill Lane", nil)
	require.NoError(t, err)
	prcl, err := parcel.NewParcel(
		kernel.NewUUID(), kernel.NewTrackingID(), customerID,
		pickup, delivery, parcel.TypeBox, parcel.SizeMedium, false, 0)
	require.NoError(t, err)
	return prcl
}

func timelineEntry(t *testing.T, parcelID kernel.UUID, seq uint64, status parcel.Status) history.Entry {
	t.Helper()
	entry, err := history.RestoreEntry(seq, parcelID, status, nil, kernel.NewUUID(), "", time.Now().UTC())
	require.NoError(t, err)
	return entry
}
