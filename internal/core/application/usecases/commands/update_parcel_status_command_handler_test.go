package commands_test

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"
)

func TestNewUpdateParcelStatusCommand(t *testing.T) {
	agent := actorWithRole(t, actor.RoleAgent)

	cmd, err := commands.NewUpdateParcelStatusCommand(
		kernel.NewTrackingID(), parcel.PickedUp, nil, "collected from sender", agent)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	require.Equal(t, parcel.PickedUp, cmd.Next())
	require.Equal(t, "collected from sender", cmd.Note())

	_, err = commands.NewUpdateParcelStatusCommand(
		kernel.NewTrackingID(), parcel.Unknown, nil, "", agent)
	require.Error(t, err)

	var zero commands.UpdateParcelStatusCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrUpdateParcelStatusCommandIsNotConstructed)
}

func assignedParcel(t *testing.T, agentID kernel.UUID) *parcel.Parcel {
	t.Helper()
	customer := actorWithRole(t, actor.RoleCustomer)
	prcl := bookedParcel(t, customer.ID())
	require.NoError(t, prcl.AssignAgent(agentID))
	return prcl
}

func TestUpdateParcelStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	agent := actorWithRole(t, actor.RoleAgent)
	prcl := assignedParcel(t, agent.ID())

	point, err := kernel.NewGeoPoint(51.5074, -0.1278)
	require.NoError(t, err)

	cmd, err := commands.NewUpdateParcelStatusCommand(
		prcl.TrackingID(), parcel.PickedUp, &point, "collected", agent)
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	historyRepo := new(MockHistoryRepository)
	uow := new(MockUoW)
	entry := timelineEntry(t, prcl.ID(), 3, parcel.PickedUp)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo).Twice()
	parcelRepo.On("GetByTrackingIDForUpdate", mock.Anything, prcl.TrackingID()).Return(prcl, nil).Once()
	parcelRepo.On("Update", mock.Anything, prcl).Return(nil).Once()
	uow.On("HistoryRepository").Return(historyRepo).Twice()
	historyRepo.On("Append", mock.Anything, mock.AnythingOfType("history.Entry")).Return(entry, nil).Once()
	historyRepo.On("GetAllForParcel", mock.Anything, prcl.ID()).
		Return([]history.Entry{entry}, nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)
	publisher.On("Publish", mock.AnythingOfType("ports.ParcelEvent")).Once()

	h := commands.NewUpdateParcelStatusCommandHandler(factory, publisher)
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, parcel.PickedUp, prcl.Status())
	require.NotNil(t, prcl.PickedUpAt())
	require.Len(t, publisher.events, 1)

	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestUpdateParcelStatusCommandHandler_Handle_UnassignedAgentRejected(t *testing.T) {
	ctx := t.Context()
	agent := actorWithRole(t, actor.RoleAgent)
	other := actorWithRole(t, actor.RoleAgent)
	prcl := assignedParcel(t, agent.ID())

	cmd, err := commands.NewUpdateParcelStatusCommand(
		prcl.TrackingID(), parcel.PickedUp, nil, "", other)
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo).Once()
	parcelRepo.On("GetByTrackingIDForUpdate", mock.Anything, prcl.TrackingID()).Return(prcl, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	h := commands.NewUpdateParcelStatusCommandHandler(factory, publisher)
	require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrNotAuthorized)
	require.Equal(t, parcel.Assigned, prcl.Status())
	require.Empty(t, publisher.events)
	uow.AssertExpectations(t)
}

func TestUpdateParcelStatusCommandHandler_Handle_IllegalTransitionRejected(t *testing.T) {
	ctx := t.Context()
	agent := actorWithRole(t, actor.RoleAgent)
	prcl := assignedParcel(t, agent.ID())

	cmd, err := commands.NewUpdateParcelStatusCommand(
		prcl.TrackingID(), parcel.Delivered, nil, "", agent)
	require.NoError(t, err)

	parcelRepo := new(MockParcelRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo).Once()
	parcelRepo.On("GetByTrackingIDForUpdate", mock.Anything, prcl.TrackingID()).Return(prcl, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockEventPublisher)

	h := commands.NewUpdateParcelStatusCommandHandler(factory, publisher)
	require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrValueIsInvalid)
	require.Empty(t, publisher.events)
}
