package journal

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	journalMock "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal/mock"
	"github.com/muhammadchandra19/ome/pkg/errors"
	mockLogger "github.com/muhammadchandra19/ome/pkg/logger/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_Append(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	event := &journalInfra.ExchangeEvent{
		Exchange:  "NASDAQ",
		EventType: journalInfra.EventOrderAck,
		EventTime: now,
		Timestamp: now,
	}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := journalMock.NewMockRepository(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo.EXPECT().Append(ctx, event).Return(int64(7), nil)

		id, err := NewUsecase(repo, log).Append(ctx, event)

		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})

	t.Run("duplicate is logged and surfaced", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := journalMock.NewMockRepository(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo.EXPECT().Append(ctx, event).Return(int64(0),
			errors.NewErrorDetails("event id already journaled", string(errors.DuplicateEventError), "id"))
		log.EXPECT().WarnContext(ctx, "duplicate event skipped", gomock.Any())

		id, err := NewUsecase(repo, log).Append(ctx, event)

		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.DuplicateEventError)))
		assert.Equal(t, int64(0), id)
	})

	t.Run("storage failure passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := journalMock.NewMockRepository(ctrl)
		log := mockLogger.NewMockInterface(ctrl)

		repo.EXPECT().Append(ctx, event).Return(int64(0), stderrors.New("connection refused"))

		_, err := NewUsecase(repo, log).Append(ctx, event)

		require.Error(t, err)
		assert.False(t, errors.ErrorCodeEquals(err, string(errors.DuplicateEventError)))
	})
}

func TestUsecase_Reads(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journalMock.NewMockRepository(ctrl)
	log := mockLogger.NewMockInterface(ctrl)
	uc := NewUsecase(repo, log)

	events := []*journalInfra.ExchangeEvent{{ID: 11}, {ID: 12}}

	repo.EXPECT().ReadSince(ctx, "NASDAQ", int64(10), 100).Return(events, nil)
	got, err := uc.ReadSince(ctx, "NASDAQ", 10, 100)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	repo.EXPECT().ReadBatch(ctx, int64(0), 256).Return(events, nil)
	got, err = uc.ReadBatch(ctx, 0, 256)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUsecase_ReadFailuresAreTyped(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := journalMock.NewMockRepository(ctrl)
	log := mockLogger.NewMockInterface(ctrl)
	uc := NewUsecase(repo, log)

	repo.EXPECT().ReadBatch(ctx, int64(0), 256).Return(nil, stderrors.New("connection refused"))
	_, err := uc.ReadBatch(ctx, 0, 256)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.StorageUnavailableError)))

	repo.EXPECT().ReadSince(ctx, "NASDAQ", int64(10), 100).Return(nil, stderrors.New("connection refused"))
	_, err = uc.ReadSince(ctx, "NASDAQ", 10, 100)
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.StorageUnavailableError)))
}
