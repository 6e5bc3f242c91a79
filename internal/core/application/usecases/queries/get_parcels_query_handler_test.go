package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

type GetParcelsQueryHandlerTestSuite struct {
	postgresQuerySuite
	handler queries.GetParcelsQueryHandler
}

func (suite *GetParcelsQueryHandlerTestSuite) SetupSuite() {
	suite.postgresQuerySuite.SetupSuite()
	suite.handler = queries.NewGetParcelsQueryHandler(suite.db)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_AdminSeesEverything() {
	suite.saveParcel(suite.bookParcel(kernel.NewUUID()))
	suite.saveParcel(suite.bookParcel(kernel.NewUUID()))

	query, err := queries.NewGetParcelsQuery(suite.actorWithRole(actor.RoleAdmin), 1, 0, "")
	suite.Require().NoError(err)

	listing, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Len(listing.Parcels, 2)
	suite.Equal(1, listing.Page)
	suite.Equal(queries.DefaultPageSize, listing.PageSize)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_CustomerSeesOnlyOwnBookings() {
	customerID := kernel.NewUUID()
	mine := suite.bookParcel(customerID)
	suite.saveParcel(mine)
	suite.saveParcel(suite.bookParcel(kernel.NewUUID()))

	customer, err := actor.NewActor(customerID, actor.RoleCustomer)
	suite.Require().NoError(err)
	query, err := queries.NewGetParcelsQuery(customer, 1, 0, "")
	suite.Require().NoError(err)

	listing, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(listing.Parcels, 1)
	suite.Equal(mine.TrackingID().String(), listing.Parcels[0].TrackingID)
	suite.Equal(customerID.String(), listing.Parcels[0].CustomerID)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_AgentSeesOnlyAssignments() {
	agentID := kernel.NewUUID()
	assigned := suite.bookParcel(kernel.NewUUID())
	suite.Require().NoError(assigned.AssignAgent(agentID))
	suite.saveParcel(assigned)
	suite.saveParcel(suite.bookParcel(kernel.NewUUID()))

	agent, err := actor.NewActor(agentID, actor.RoleAgent)
	suite.Require().NoError(err)
	query, err := queries.NewGetParcelsQuery(agent, 1, 0, "")
	suite.Require().NoError(err)

	listing, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(listing.Parcels, 1)
	suite.Equal(assigned.TrackingID().String(), listing.Parcels[0].TrackingID)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_StatusFilter() {
	cancelled := suite.bookParcel(kernel.NewUUID())
	suite.saveParcel(cancelled)
	suite.saveParcel(suite.bookParcel(kernel.NewUUID()))
	suite.setParcelColumn(cancelled.TrackingID(), "status", "cancelled")

	query, err := queries.NewGetParcelsQuery(suite.actorWithRole(actor.RoleAdmin), 1, 0, "cancelled")
	suite.Require().NoError(err)

	listing, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(listing.Parcels, 1)
	suite.Equal("cancelled", listing.Parcels[0].Status)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_UnknownStatusFilterRejected() {
	_, err := queries.NewGetParcelsQuery(suite.actorWithRole(actor.RoleAdmin), 1, 0, "teleported")

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_PagesNewestFirst() {
	older := suite.bookParcel(kernel.NewUUID())
	newer := suite.bookParcel(kernel.NewUUID())
	suite.saveParcel(older)
	suite.saveParcel(newer)
	now := time.Now().UTC()
	suite.setParcelColumn(older.TrackingID(), "created_at", now.Add(-time.Hour))
	suite.setParcelColumn(newer.TrackingID(), "created_at", now)

	admin := suite.actorWithRole(actor.RoleAdmin)

	firstPage, err := queries.NewGetParcelsQuery(admin, 1, 1, "")
	suite.Require().NoError(err)
	listing, err := suite.handler.Handle(context.Background(), firstPage)
	suite.Require().NoError(err)
	suite.Require().Len(listing.Parcels, 1)
	suite.Equal(newer.TrackingID().String(), listing.Parcels[0].TrackingID)

	secondPage, err := queries.NewGetParcelsQuery(admin, 2, 1, "")
	suite.Require().NoError(err)
	listing, err = suite.handler.Handle(context.Background(), secondPage)
	suite.Require().NoError(err)
	suite.Require().Len(listing.Parcels, 1)
	suite.Equal(older.TrackingID().String(), listing.Parcels[0].TrackingID)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_PageOutOfRangeRejected() {
	_, err := queries.NewGetParcelsQuery(suite.actorWithRole(actor.RoleAdmin), 0, 0, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrValueIsOutOfRange)
}

func (suite *GetParcelsQueryHandlerTestSuite) TestHandle_UnconstructedQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetParcelsQuery{})

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetParcelsQuery constructor")
}

func TestGetParcelsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetParcelsQueryHandlerTestSuite))
}
