package queries_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/postgres/historyrepo"
	"parceltrack/internal/adapters/out/postgres/parcelrepo"
	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/history"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/ports"
)

// postgresQuerySuite boots one postgres container for a handler suite and
// offers seeding helpers shared by the query handler tests.
type postgresQuerySuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	uow       ports.UnitOfWork
}

func (suite *postgresQuerySuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&parcelrepo.ParcelDTO{}, &historyrepo.EntryDTO{})
	suite.Require().NoError(err)

	suite.uow = postgres.NewGormUnitOfWorkFactory(db).Create()
}

func (suite *postgresQuerySuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *postgresQuerySuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE parcels, parcel_history").Error
	suite.Require().NoError(err)
}

func (suite *postgresQuerySuite) actorWithRole(role actor.Role) actor.Actor {
	act, err := actor.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return act
}

func (suite *postgresQuerySuite) bookParcel(customerID kernel.UUID) *parcel.Parcel {
	pickup, err := parcel.NewAddress("12 Pickup Lane", nil)
	suite.Require().NoError(err)
	delivery, err := parcel.NewAddress("99 Delivery Road", nil)
	suite.Require().NoError(err)

	aggregate, err := parcel.NewParcel(
		kernel.NewUUID(), kernel.NewTrackingID(), customerID,
		pickup, delivery, parcel.TypeBox, parcel.SizeMedium, false, 0,
	)
	suite.Require().NoError(err)
	return aggregate
}

func (suite *postgresQuerySuite) saveParcel(aggregate *parcel.Parcel) {
	err := suite.uow.ParcelRepository().Add(context.Background(), aggregate)
	suite.Require().NoError(err)
}

// setParcelColumn tweaks a raw column so read-model tests can shape rows
// without walking the whole aggregate lifecycle.
func (suite *postgresQuerySuite) setParcelColumn(trackingID kernel.TrackingID, column string, value any) {
	err := suite.db.Exec(
		"UPDATE parcels SET "+column+" = ? WHERE tracking_id = ?",
		value, trackingID.String(),
	).Error
	suite.Require().NoError(err)
}

func (suite *postgresQuerySuite) appendEntry(
	parcelID kernel.UUID,
	status parcel.Status,
	note string,
	createdAt time.Time,
) history.Entry {
	entry, err := history.NewEntry(parcelID, status, nil, kernel.NewUUID(), note, createdAt)
	suite.Require().NoError(err)

	stored, err := suite.uow.HistoryRepository().Append(context.Background(), entry)
	suite.Require().NoError(err)
	return stored
}
