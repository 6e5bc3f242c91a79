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

type GetUnassignedParcelsQueryHandlerTestSuite struct {
	postgresQuerySuite
	handler queries.GetUnassignedParcelsQueryHandler
}

func (suite *GetUnassignedParcelsQueryHandlerTestSuite) SetupSuite() {
	suite.postgresQuerySuite.SetupSuite()
	suite.handler = queries.NewGetUnassignedParcelsQueryHandler(suite.db)
}

func (suite *GetUnassignedParcelsQueryHandlerTestSuite) TestHandle_ListsBacklogOldestFirst() {
	older := suite.bookParcel(kernel.NewUUID())
	newer := suite.bookParcel(kernel.NewUUID())
	assigned := suite.bookParcel(kernel.NewUUID())
	suite.Require().NoError(assigned.AssignAgent(kernel.NewUUID()))
	suite.saveParcel(older)
	suite.saveParcel(newer)
	suite.saveParcel(assigned)
	now := time.Now().UTC()
	suite.setParcelColumn(older.TrackingID(), "created_at", now.Add(-time.Hour))
	suite.setParcelColumn(newer.TrackingID(), "created_at", now)

	query, err := queries.NewGetUnassignedParcelsQuery(suite.actorWithRole(actor.RoleAdmin))
	suite.Require().NoError(err)

	listing, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(listing.Parcels, 2)
	suite.Equal(older.TrackingID().String(), listing.Parcels[0].TrackingID)
	suite.Equal(newer.TrackingID().String(), listing.Parcels[1].TrackingID)
}

func (suite *GetUnassignedParcelsQueryHandlerTestSuite) TestHandle_EmptyBacklog() {
	query, err := queries.NewGetUnassignedParcelsQuery(suite.actorWithRole(actor.RoleAdmin))
	suite.Require().NoError(err)

	listing, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(listing.Parcels)
	suite.Empty(listing.Parcels)
}

func (suite *GetUnassignedParcelsQueryHandlerTestSuite) TestHandle_NonAdminIsNotAuthorized() {
	for _, role := range []actor.Role{actor.RoleCustomer, actor.RoleAgent} {
		query, err := queries.NewGetUnassignedParcelsQuery(suite.actorWithRole(role))
		suite.Require().NoError(err)

		_, err = suite.handler.Handle(context.Background(), query)

		suite.Require().Error(err)
		suite.ErrorIs(err, errs.ErrNotAuthorized)
	}
}

func (suite *GetUnassignedParcelsQueryHandlerTestSuite) TestHandle_UnconstructedQuery_ReturnsError() {
	_, err := suite.handler.Handle(context.Background(), queries.GetUnassignedParcelsQuery{})

	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetUnassignedParcelsQuery constructor")
}

func TestGetUnassignedParcelsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetUnassignedParcelsQueryHandlerTestSuite))
}
