package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestHelper provides common testing utilities
type TestHelper struct {
	Container *TestContainer
	T         *testing.T
}

// NewTestHelper creates a new test helper with default configuration
func NewTestHelper(t *testing.T) *TestHelper {
	return NewTestHelperWithConfig(t, nil)
}

// NewTestHelperWithConfig creates a new test helper with custom configuration
func NewTestHelperWithConfig(t *testing.T, config *TestContainerConfig) *TestHelper {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	if config == nil {
		config = DefaultTestContainerConfig()
	}

	container, err := NewTestContainer(ctx, config)
	require.NoError(t, err)

	// Cleanup on test completion
	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Logf("Failed to close test container: %v", err)
		}
	})

	return &TestHelper{
		Container: container,
		T:         t,
	}
}

// NewTestHelperWithMigrations creates a test helper and runs migrations from the specified path
func NewTestHelperWithMigrations(t *testing.T, migrationsPath string) *TestHelper {
	config := DefaultTestContainerConfig()
	config.MigrationsPath = migrationsPath
	return NewTestHelperWithConfig(t, config)
}

// NewTestHelperWithMigrationsAndPattern creates a test helper with custom migration pattern
func NewTestHelperWithMigrationsAndPattern(t *testing.T, migrationsPath, pattern string) *TestHelper {
	config := DefaultTestContainerConfig()
	config.MigrationsPath = migrationsPath
	config.MigrationPattern = pattern
	return NewTestHelperWithConfig(t, config)
}

// CleanupTables truncates all tables between tests
func (h *TestHelper) CleanupTables() {
	err := h.Container.TruncateAllTables()
	require.NoError(h.T, err)
}

// RequireNoError fails the test if error is not nil
func (h *TestHelper) RequireNoError(err error) {
	require.NoError(h.T, err)
}

// RequireEqual fails the test if values are not equal
func (h *TestHelper) RequireEqual(expected, actual interface{}) {
	require.Equal(h.T, expected, actual)
}

// ExecuteSQL executes SQL and fails test on error
func (h *TestHelper) ExecuteSQL(sql string) {
	err := h.Container.ExecuteSQL(sql)
	require.NoError(h.T, err)
}

// LoadSQLFile loads and executes a SQL file
func (h *TestHelper) LoadSQLFile(filePath string) {
	err := h.Container.LoadSQLFile(filePath)
	require.NoError(h.T, err)
}

// WaitForReady waits for database to be ready with a default timeout
func (h *TestHelper) WaitForReady() {
	err := h.Container.WaitForReady(30 * time.Second)
	require.NoError(h.T, err)
}

// GetClient returns the PostgreSQL client
func (h *TestHelper) GetClient() PostgreSQLClient {
	return h.Container.Client
}

// GetConnectionString returns the connection string
func (h *TestHelper) GetConnectionString() string {
	return h.Container.GetConnectionString()
}
