package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/muhammadchandra19/ome/pkg/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	helper *postgresql.TestHelper
	repo   Repository
	ctx    context.Context
}

// SetupSuite runs once before all tests
func (suite *RepositoryTestSuite) SetupSuite() {
	suite.ctx = context.Background()

	// Get absolute path to migrations
	migrationsPath, err := filepath.Abs("../migrations")
	require.NoError(suite.T(), err)

	config := &postgresql.TestContainerConfig{
		Image:            "postgres:15-alpine",
		Database:         "ome_test_db",
		Username:         "ome_test_user",
		Password:         "ome_test_pass",
		MigrationsPath:   migrationsPath,
		MigrationPattern: "*.up.sql",
		StartupTimeout:   3 * time.Minute,
	}

	suite.helper = postgresql.NewTestHelperWithConfig(suite.T(), config)

	health := suite.helper.GetClient().CheckHealth(suite.ctx)
	require.Equal(suite.T(), "healthy", health.Status)
	require.True(suite.T(), suite.helper.GetClient().IsHealthy(suite.ctx))

	logger, err := logger.NewLogger()
	require.NoError(suite.T(), err)
	suite.repo = NewRepository(suite.helper.GetClient(), logger)
}

// SetupTest runs before each test
func (suite *RepositoryTestSuite) SetupTest() {
	suite.helper.CleanupTables()

	suite.helper.ExecuteSQL(`INSERT INTO exchanges (name, full_name) VALUES ('NASDAQ', 'NASDAQ Stock Market')`)
}

func (suite *RepositoryTestSuite) newEvent(eventType EventType) *ExchangeEvent {
	now := time.Now().UTC()
	return &ExchangeEvent{
		Exchange:  "NASDAQ",
		EventType: eventType,
		EventTime: now,
		Timestamp: now,
	}
}

func (suite *RepositoryTestSuite) TestAppend_AssignsAscendingIDs() {
	first, err := suite.repo.Append(suite.ctx, suite.newEvent(EventExchangeConnected))
	require.NoError(suite.T(), err)

	second, err := suite.repo.Append(suite.ctx, suite.newEvent(EventOrderReceived))
	require.NoError(suite.T(), err)

	assert.Greater(suite.T(), second, first)
}

func (suite *RepositoryTestSuite) TestAppend_DuplicateExplicitID() {
	event := suite.newEvent(EventOrderFill)
	event.ID = 100

	id, err := suite.repo.Append(suite.ctx, event)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(100), id)

	dup := suite.newEvent(EventOrderFill)
	dup.ID = 100

	_, err = suite.repo.Append(suite.ctx, dup)
	require.Error(suite.T(), err)
	assert.True(suite.T(), errors.ErrorCodeEquals(err, string(errors.DuplicateEventError)))

	// The journal still holds exactly one row for that id
	events, err := suite.repo.ReadBatch(suite.ctx, 0, 10)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), events, 1)
}

func (suite *RepositoryTestSuite) TestAppend_DetailsRoundTrip() {
	details, err := EncodeDetails(OrderDetails{OrderID: 1, Quantity: 40})
	require.NoError(suite.T(), err)

	event := suite.newEvent(EventOrderFill)
	event.Details = details

	_, err = suite.repo.Append(suite.ctx, event)
	require.NoError(suite.T(), err)

	events, err := suite.repo.ReadBatch(suite.ctx, 0, 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), events, 1)

	parsed, err := events[0].OrderDetails()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), parsed.OrderID)
	assert.Equal(suite.T(), int64(40), parsed.Quantity)
}

func (suite *RepositoryTestSuite) TestReadSince_AscendingFromCursor() {
	ids := make([]int64, 0, 3)
	for i := 0; i < 3; i++ {
		id, err := suite.repo.Append(suite.ctx, suite.newEvent(EventMarketData))
		require.NoError(suite.T(), err)
		ids = append(ids, id)
	}

	events, err := suite.repo.ReadSince(suite.ctx, "NASDAQ", ids[0], 10)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), events, 2)
	assert.Equal(suite.T(), ids[1], events[0].ID)
	assert.Equal(suite.T(), ids[2], events[1].ID)

	// Nothing past the newest id
	events, err = suite.repo.ReadSince(suite.ctx, "NASDAQ", ids[2], 10)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), events, 0)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
