package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/muhammadchandra19/ome/pkg/logger"
	mockLogger "github.com/muhammadchandra19/ome/pkg/logger/mock"
	mockPg "github.com/muhammadchandra19/ome/pkg/postgresql/mock"
	"github.com/stretchr/testify/assert"
)

func TestOrder_Store(t *testing.T) {
	ctx := context.Background()
	query := `INSERT INTO orders (received_event_id, symbol, quantity, state, received_time, processed_time, filled_time, client, filled_quantity, last_event_id) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	now := time.Now()
	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order)
		testData *Order
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order) {
				mockpg.EXPECT().
					Exec(ctx, query,
						tc.ReceivedEventID,
						tc.Symbol,
						tc.Quantity,
						tc.State,
						tc.ReceivedTime,
						tc.ProcessedTime,
						tc.FilledTime,
						tc.Client,
						tc.FilledQuantity,
						tc.LastEventID,
					).Return(pgconn.CommandTag{}, nil)

				mockLogger.EXPECT().
					Info("Inserted order", logger.Field{
						Key:   "commandTag",
						Value: "",
					})
			},
			testData: &Order{
				ReceivedEventID: 1,
				Symbol:          "AAPL",
				Quantity:        100,
				State:           OrderStateReceived,
				ReceivedTime:    now,
				Client:          "ACME",
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order) {
				mockpg.EXPECT().
					Exec(ctx, query,
						tc.ReceivedEventID,
						tc.Symbol,
						tc.Quantity,
						tc.State,
						tc.ReceivedTime,
						tc.ProcessedTime,
						tc.FilledTime,
						tc.Client,
						tc.FilledQuantity,
						tc.LastEventID,
					).Return(pgconn.CommandTag{}, errors.New("error"))
			},
			testData: &Order{
				ReceivedEventID: 1,
				Symbol:          "AAPL",
				Quantity:        100,
				State:           OrderStateReceived,
				ReceivedTime:    now,
				Client:          "ACME",
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			log := mockLogger.NewMockInterface(ctrl)

			repo := NewRepository(pg, log)

			tc.mockFn(pg, log, tc.testData)

			err := repo.Store(ctx, tc.testData)
			tc.assertFn(t, err)
		})
	}
}

func TestOrder_GetByID(t *testing.T) {
	ctx := context.Background()
	query := `SELECT received_event_id, symbol, quantity, state, received_time, processed_time, filled_time, client, filled_quantity, last_event_id FROM orders WHERE received_event_id = $1`
	now := time.Now()
	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockRow *mockPg.MockRowInterface, tc *Order)
		testData *Order
		assertFn func(t *testing.T, err error, tc *Order, order *Order)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRow *mockPg.MockRowInterface, tc *Order) {
				mockpg.EXPECT().
					QueryRow(ctx, query, tc.ReceivedEventID).
					Return(mockRow)

				mockRow.EXPECT().
					Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					*dest[0].(*int64) = tc.ReceivedEventID
					*dest[1].(*string) = tc.Symbol
					*dest[2].(*int64) = tc.Quantity
					*dest[3].(*State) = tc.State
					*dest[4].(*time.Time) = tc.ReceivedTime
					*dest[5].(**time.Time) = tc.ProcessedTime
					*dest[6].(**time.Time) = tc.FilledTime
					*dest[7].(*string) = tc.Client
					*dest[8].(**int64) = tc.FilledQuantity
					*dest[9].(*int64) = tc.LastEventID
					return nil
				})
			},
			testData: &Order{
				ReceivedEventID: 7,
				Symbol:          "AAPL",
				Quantity:        100,
				State:           OrderStateProcessed,
				ReceivedTime:    now,
				ProcessedTime:   &now,
				Client:          "ACME",
				LastEventID:     9,
			},
			assertFn: func(t *testing.T, err error, tc *Order, order *Order) {
				assert.NoError(t, err)
				assert.Equal(t, tc, order)
			},
		},
		{
			name: "no rows returns nil order",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRow *mockPg.MockRowInterface, tc *Order) {
				mockpg.EXPECT().
					QueryRow(ctx, query, tc.ReceivedEventID).
					Return(mockRow)

				mockRow.EXPECT().
					Scan(gomock.Any()).Return(pgx.ErrNoRows)
			},
			testData: &Order{ReceivedEventID: 7},
			assertFn: func(t *testing.T, err error, tc *Order, order *Order) {
				assert.NoError(t, err)
				assert.Nil(t, order)
			},
		},
		{
			name: "query fails",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRow *mockPg.MockRowInterface, tc *Order) {
				mockpg.EXPECT().
					QueryRow(ctx, query, tc.ReceivedEventID).
					Return(mockRow)

				mockRow.EXPECT().
					Scan(gomock.Any()).Return(errors.New("error"))
			},
			testData: &Order{ReceivedEventID: 7},
			assertFn: func(t *testing.T, err error, tc *Order, order *Order) {
				assert.Error(t, err)
				assert.Nil(t, order)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			row := mockPg.NewMockRowInterface(ctrl)
			log := mockLogger.NewMockInterface(ctrl)

			repo := NewRepository(pg, log)

			tc.mockFn(pg, row, tc.testData)

			order, err := repo.GetByID(ctx, tc.testData.ReceivedEventID)
			tc.assertFn(t, err, tc.testData, order)
		})
	}
}

func TestOrder_GetForUpdate(t *testing.T) {
	ctx := context.Background()
	query := `SELECT received_event_id, symbol, quantity, state, received_time, processed_time, filled_time, client, filled_quantity, last_event_id FROM orders WHERE received_event_id = $1 FOR UPDATE`

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	row := mockPg.NewMockRowInterface(ctrl)
	log := mockLogger.NewMockInterface(ctrl)

	repo := NewRepository(pg, log)

	pg.EXPECT().QueryRow(ctx, query, int64(7)).Return(row)
	row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*dest[0].(*int64) = 7
		*dest[1].(*string) = "AAPL"
		*dest[2].(*int64) = 100
		*dest[3].(*State) = OrderStateProcessed
		return nil
	})

	order, err := repo.GetForUpdate(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), order.ReceivedEventID)
	assert.Equal(t, OrderStateProcessed, order.State)
}

func TestOrder_Update(t *testing.T) {
	ctx := context.Background()
	query := `UPDATE orders SET state = $1, processed_time = $2, filled_time = $3, filled_quantity = $4, last_event_id = $5 WHERE received_event_id = $6`
	now := time.Now()
	filled := int64(40)
	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order)
		testData *Order
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "success",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order) {
				mockpg.EXPECT().
					Exec(ctx, query,
						tc.State,
						tc.ProcessedTime,
						tc.FilledTime,
						tc.FilledQuantity,
						tc.LastEventID,
						tc.ReceivedEventID,
					).Return(pgconn.CommandTag{}, nil)

				mockLogger.EXPECT().
					Info("Updated order", logger.Field{
						Key:   "commandTag",
						Value: "",
					})
			},
			testData: &Order{
				ReceivedEventID: 7,
				State:           OrderStatePartiallyFilled,
				ProcessedTime:   &now,
				FilledTime:      &now,
				FilledQuantity:  &filled,
				LastEventID:     9,
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "error",
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockLogger *mockLogger.MockInterface, tc *Order) {
				mockpg.EXPECT().
					Exec(ctx, query,
						tc.State,
						tc.ProcessedTime,
						tc.FilledTime,
						tc.FilledQuantity,
						tc.LastEventID,
						tc.ReceivedEventID,
					).Return(pgconn.CommandTag{}, errors.New("error"))
			},
			testData: &Order{
				ReceivedEventID: 7,
				State:           OrderStatePartiallyFilled,
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			log := mockLogger.NewMockInterface(ctrl)

			repo := NewRepository(pg, log)

			tc.mockFn(pg, log, tc.testData)

			err := repo.Update(ctx, tc.testData)
			tc.assertFn(t, err)
		})
	}
}

func TestOrder_List(t *testing.T) {
	ctx := context.Background()
	query := "SELECT received_event_id, symbol, quantity, state, received_time, processed_time, filled_time, client, filled_quantity, last_event_id FROM orders WHERE 1=1"
	now := time.Now()
	testCases := []struct {
		name     string
		mockFn   func(mockpg *mockPg.MockPostgreSQLClient, mockRows *mockPg.MockRowsInterface, tc Filter)
		filter   Filter
		assertFn func(t *testing.T, err error, orders []*Order)
	}{
		{
			name: "success",
			filter: Filter{
				Client:        "ACME",
				Symbol:        "AAPL",
				State:         "processed",
				From:          &now,
				To:            &now,
				Limit:         20,
				Offset:        10,
				SortDirection: "ASC",
			},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRows *mockPg.MockRowsInterface, tc Filter) {
				mockpg.EXPECT().
					Query(
						ctx,
						query+" AND client = $1 AND symbol = $2 AND state = $3 AND received_time >= $4 AND received_time <= $5 ORDER BY received_time ASC LIMIT $6 OFFSET $7",
						tc.Client,
						tc.Symbol,
						tc.State,
						now,
						now,
						tc.Limit,
						tc.Offset,
					).Return(mockRows, nil)

				mockRows.EXPECT().Next().Return(true)
				mockRows.EXPECT().
					Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
					*dest[0].(*int64) = 7
					*dest[1].(*string) = "AAPL"
					*dest[2].(*int64) = 100
					*dest[3].(*State) = OrderStateProcessed
					*dest[4].(*time.Time) = now
					*dest[7].(*string) = "ACME"
					return nil
				})

				mockRows.EXPECT().Next().Return(false)
				mockRows.EXPECT().Err().Return(nil)
				mockRows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, err error, orders []*Order) {
				assert.NoError(t, err)
				assert.Equal(t, 1, len(orders))
			},
		},
		{
			name: "sort direction outside the whitelist falls back to DESC",
			filter: Filter{
				Client:        "ACME",
				SortDirection: "ASC; DROP TABLE orders",
			},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRows *mockPg.MockRowsInterface, tc Filter) {
				mockpg.EXPECT().
					Query(
						ctx,
						query+" AND client = $1 ORDER BY received_time DESC",
						tc.Client,
					).Return(mockRows, nil)

				mockRows.EXPECT().Next().Return(false)
				mockRows.EXPECT().Err().Return(nil)
				mockRows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, err error, orders []*Order) {
				assert.NoError(t, err)
				assert.Empty(t, orders)
			},
		},
		{
			name: "failed to query",
			filter: Filter{
				Client: "ACME",
			},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRows *mockPg.MockRowsInterface, tc Filter) {
				mockpg.EXPECT().
					Query(
						ctx,
						query+" AND client = $1 ORDER BY received_time DESC",
						tc.Client,
					).Return(mockRows, errors.New("error"))
			},
			assertFn: func(t *testing.T, err error, orders []*Order) {
				assert.Error(t, err)
				assert.Nil(t, orders)
			},
		},
		{
			name: "failed to scan",
			filter: Filter{
				Client: "ACME",
			},
			mockFn: func(mockpg *mockPg.MockPostgreSQLClient, mockRows *mockPg.MockRowsInterface, tc Filter) {
				mockpg.EXPECT().
					Query(
						ctx,
						query+" AND client = $1 ORDER BY received_time DESC",
						tc.Client,
					).Return(mockRows, nil)

				mockRows.EXPECT().Next().Return(true)
				mockRows.EXPECT().
					Scan(gomock.Any()).Return(errors.New("error"))
				mockRows.EXPECT().Close()
			},
			assertFn: func(t *testing.T, err error, orders []*Order) {
				assert.Error(t, err)
				assert.Nil(t, orders)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			rows := mockPg.NewMockRowsInterface(ctrl)
			log := mockLogger.NewMockInterface(ctrl)

			repo := NewRepository(pg, log)

			tc.mockFn(pg, rows, tc.filter)

			orders, err := repo.List(ctx, tc.filter)
			tc.assertFn(t, err, orders)
		})
	}
}
