package cursor

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/muhammadchandra19/ome/pkg/errors"
	mockLogger "github.com/muhammadchandra19/ome/pkg/logger/mock"
	mockPg "github.com/muhammadchandra19/ome/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_Get(t *testing.T) {
	ctx := context.Background()
	query := `SELECT last_event_id FROM consumer_cursors WHERE consumer = $1`

	t.Run("returns committed cursor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		row := mockPg.NewMockRowInterface(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo := NewRepository(pg, log)

		pg.EXPECT().QueryRow(ctx, query, "ome-dispatcher").Return(row)
		row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
			*dest[0].(*int64) = 42
			return nil
		})

		got, err := repo.Get(ctx, "ome-dispatcher")
		require.NoError(t, err)
		assert.Equal(t, int64(42), got)
	})

	t.Run("never committed returns zero", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		row := mockPg.NewMockRowInterface(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo := NewRepository(pg, log)

		pg.EXPECT().QueryRow(ctx, query, "ome-dispatcher").Return(row)
		row.EXPECT().Scan(gomock.Any()).Return(pgx.ErrNoRows)

		got, err := repo.Get(ctx, "ome-dispatcher")
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("storage failure is typed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		row := mockPg.NewMockRowInterface(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo := NewRepository(pg, log)

		pg.EXPECT().QueryRow(ctx, query, "ome-dispatcher").Return(row)
		row.EXPECT().Scan(gomock.Any()).Return(stderrors.New("connection refused"))

		_, err := repo.Get(ctx, "ome-dispatcher")
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.StorageUnavailableError)))
	})
}

func TestCursor_Commit(t *testing.T) {
	ctx := context.Background()
	query := `INSERT INTO consumer_cursors (consumer, last_event_id, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (consumer) DO UPDATE SET last_event_id = EXCLUDED.last_event_id, updated_at = NOW()`

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo := NewRepository(pg, log)

		pg.EXPECT().Exec(ctx, query, "ome-dispatcher", int64(42)).Return(pgconn.CommandTag{}, nil)

		require.NoError(t, repo.Commit(ctx, "ome-dispatcher", 42))
	})

	t.Run("storage failure is typed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		pg := mockPg.NewMockPostgreSQLClient(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo := NewRepository(pg, log)

		pg.EXPECT().Exec(ctx, query, "ome-dispatcher", int64(42)).Return(pgconn.CommandTag{}, stderrors.New("connection refused"))

		err := repo.Commit(ctx, "ome-dispatcher", 42)
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.StorageUnavailableError)))
	})
}
