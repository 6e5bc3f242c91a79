package commands_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
)

func validBookParcelCommand(t *testing.T, requestedBy actor.Actor, customerID kernel.UUID) commands.BookParcelCommand {
	t.Helper()
	pickup, err := parcel.NewAddress("7 Dock Street", nil)
	require.NoError(t, err)
	delivery, err := parcel.NewAddress("19 Mill Lane", nil)
	require.NoError(t, err)
	cmd, err := commands.NewBookParcelCommand(
		kernel.NewUUID(), customerID, requestedBy,
		pickup, delivery, parcel.TypeDocument, parcel.SizeSmall, false, 0)
	require.NoError(t, err)
	return cmd
}

func TestNewBookParcelCommand(t *testing.T) {
	customer := actorWithRole(t, actor.RoleCustomer)
	cmd := validBookParcelCommand(t, customer, customer.ID())

	require.NoError(t, cmd.Validate())
	require.Equal(t, parcel.TypeDocument, cmd.Type())
	require.Equal(t, parcel.SizeSmall, cmd.Size())
	require.True(t, cmd.CustomerID().IsEqual(customer.ID()))
}

func TestNewBookParcelCommand_ValidationErrors(t *testing.T) {
	customer := actorWithRole(t, actor.RoleCustomer)
	pickup, err := parcel.NewAddress("7 Dock Street", nil)
	require.NoError(t, err)
	delivery, err := parcel.NewAddress("19 Mill Lane", nil)
	require.NoError(t, err)

	_, err = commands.NewBookParcelCommand(
		kernel.UUID{}, customer.ID(), customer,
		pickup, delivery, parcel.TypeDocument, parcel.SizeSmall, false, 0)
	require.Error(t, err)

	_, err = commands.NewBookParcelCommand(
		kernel.NewUUID(), customer.ID(), customer,
		parcel.Address{}, delivery, parcel.TypeDocument, parcel.SizeSmall, false, 0)
	require.Error(t, err)

	_, err = commands.NewBookParcelCommand(
		kernel.NewUUID(), customer.ID(), customer,
		pickup, delivery, parcel.TypeUnknown, parcel.SizeSmall, false, 0)
	require.Error(t, err)

	_, err = commands.NewBookParcelCommand(
		kernel.NewUUID(), customer.ID(), customer,
		pickup, delivery, parcel.TypeDocument, parcel.SizeSmall, true, 0)
	require.Error(t, err)
}

func TestBookParcelCommand_ZeroValueIsNotConstructed(t *testing.T) {
	var cmd commands.BookParcelCommand
	require.ErrorIs(t, cmd.Validate(), commands.ErrBookParcelCommandIsNotConstructed)
}
