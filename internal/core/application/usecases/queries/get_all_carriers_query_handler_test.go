package queries_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/carrierrepo"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/carrier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GetAllCarriersQueryHandlerTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetAllCarriersQueryHandler
}

func (suite *GetAllCarriersQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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

	suite.Require().NoError(db.AutoMigrate(&carrierrepo.CarrierDTO{}))

	suite.handler = queries.NewGetAllCarriersQueryHandler(db)
}

func (suite *GetAllCarriersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetAllCarriersQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE carriers").Error
	suite.Require().NoError(err)
}

func (suite *GetAllCarriersQueryHandlerTestSuite) query() queries.GetAllCarriersQuery {
	q, err := queries.NewGetAllCarriersQuery(9)
	suite.Require().NoError(err)
	return q
}

func (suite *GetAllCarriersQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	result, err := suite.handler.Handle(context.Background(), suite.query())

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetAllCarriersQueryHandlerTestSuite) TestHandle_WithCarriers_ReturnsRosterOrderedByID() {
	suite.saveCarrier("C2", "Bravo", 39.29, -76.61, 8.5)
	suite.saveCarrier("C1", "Alpha", 39.00, -76.95, 1.25)
	suite.saveCarrier("C3", "Charlie", 38.90, -77.03, 10)

	result, err := suite.handler.Handle(context.Background(), suite.query())

	suite.Require().NoError(err)
	suite.Require().Len(result, 3)

	suite.Equal(kernel.CarrierID("C1"), result[0].ID)
	suite.Equal("Alpha", result[0].Name)
	suite.InDelta(39.00, result[0].Location.Lat(), 1e-9)
	suite.InDelta(-76.95, result[0].Location.Lng(), 1e-9)
	suite.InDelta(1.25, result[0].HoursWorked, 1e-9)
	suite.InDelta(7.75, result[0].RemainingHours, 1e-9)

	suite.Equal(kernel.CarrierID("C2"), result[1].ID)
	suite.InDelta(0.5, result[1].RemainingHours, 1e-9)

	suite.Equal(kernel.CarrierID("C3"), result[2].ID)
	suite.InDelta(0, result[2].RemainingHours, 1e-9, "remaining hours never go negative")
}

func (suite *GetAllCarriersQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetAllCarriersQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetAllCarriersQueryIsNotConstructed)
	suite.Nil(result)
}

func (suite *GetAllCarriersQueryHandlerTestSuite) TestHandle_ContextCancellation_ReturnsError() {
	for i := range 20 {
		suite.saveCarrier(fmt.Sprintf("C%02d", i), "Carrier", 39, -77, 0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suite.handler.Handle(ctx, suite.query())

	suite.Require().Error(err)
	suite.Nil(result)
}

func (suite *GetAllCarriersQueryHandlerTestSuite) saveCarrier(id, name string, lat, lng, hours float64) {
	loc, err := kernel.NewGeoPoint(lat, lng)
	suite.Require().NoError(err)

	c, err := carrier.NewCarrier(kernel.CarrierID(id), name, loc, hours)
	suite.Require().NoError(err)

	repo := carrierrepo.NewGormCarrierRepository(suite.db)
	suite.Require().NoError(repo.Add(context.Background(), c))
}

func TestGetAllCarriersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetAllCarriersQueryHandlerTestSuite))
}
