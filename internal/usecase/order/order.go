package order

import (
	"context"

	domain "github.com/muhammadchandra19/ome/domain/order"
	clientInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/client"
	exchangeInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/exchange"
	journalInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/journal"
	orderInfra "github.com/muhammadchandra19/ome/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/ome/pkg/errors"
	"github.com/muhammadchandra19/ome/pkg/logger"
	"github.com/muhammadchandra19/ome/pkg/postgresql"
)

type usecase struct {
	orderRepository    orderInfra.Repository
	journalRepository  journalInfra.Repository
	clientRepository   clientInfra.Repository
	exchangeRepository exchangeInfra.Repository
	dbTx               postgresql.Transaction
	logger             logger.Interface
}

// NewUsecase creates a new order usecase.
func NewUsecase(
	orderRepository orderInfra.Repository,
	journalRepository journalInfra.Repository,
	clientRepository clientInfra.Repository,
	exchangeRepository exchangeInfra.Repository,
	dbTx postgresql.Transaction,
	logger logger.Interface,
) *usecase {
	return &usecase{
		orderRepository:    orderRepository,
		journalRepository:  journalRepository,
		clientRepository:   clientRepository,
		exchangeRepository: exchangeRepository,
		dbTx:               dbTx,
		logger:             logger,
	}
}

// PlaceOrder admits a new client order. The order_received event and the
// order row are written in one transaction; the event's journal id becomes
// the order id.
func (u *usecase) PlaceOrder(ctx context.Context, req *domain.PlaceOrderRequest) (*orderInfra.Order, error) {
	if req.Quantity <= 0 {
		return nil, errors.NewErrorDetails("quantity must be positive", string(errors.GeneralBadRequestError), "quantity")
	}

	client, err := u.clientRepository.GetByAcronym(ctx, req.Client)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.NewErrorDetails("unknown client", string(errors.GeneralBadRequestError), "client")
	}

	symbol, err := u.exchangeRepository.GetSymbol(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	if symbol == nil {
		return nil, errors.NewErrorDetails("unknown symbol", string(errors.GeneralBadRequestError), "symbol")
	}

	details, err := journalInfra.EncodeDetails(journalInfra.OrderDetails{Quantity: req.Quantity})
	if err != nil {
		return nil, err
	}

	txCtx, err := u.dbTx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer u.dbTx.Rollback(txCtx)

	eventID, err := u.journalRepository.Append(txCtx, &journalInfra.ExchangeEvent{
		Exchange:  req.Exchange,
		EventType: journalInfra.EventOrderReceived,
		EventTime: req.EventTime,
		Timestamp: req.EventTime,
		Details:   details,
	})
	if err != nil {
		return nil, err
	}

	order := &orderInfra.Order{
		ReceivedEventID: eventID,
		Symbol:          req.Symbol,
		Quantity:        req.Quantity,
		State:           orderInfra.OrderStateReceived,
		ReceivedTime:    req.EventTime,
		Client:          req.Client,
	}

	if err := u.orderRepository.Store(txCtx, order); err != nil {
		return nil, err
	}

	if err := u.dbTx.Commit(txCtx); err != nil {
		return nil, err
	}

	return order, nil
}

// Apply applies one journaled exchange event to an order. The row lock taken
// by GetForUpdate serializes concurrent appliers on the same order; events at
// or below the order's last_event_id are duplicates and leave it unchanged.
func (u *usecase) Apply(ctx context.Context, orderID int64, event *journalInfra.ExchangeEvent) (*orderInfra.Order, error) {
	txCtx, err := u.dbTx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer u.dbTx.Rollback(txCtx)

	order, err := u.orderRepository.GetForUpdate(txCtx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewErrorDetails("order does not exist", string(errors.OrderNotFoundError), "orderID")
	}

	if event.ID <= order.LastEventID {
		u.logger.WarnContext(ctx, "duplicate event skipped", logger.Field{
			Key:   "eventID",
			Value: event.ID,
		}, logger.Field{
			Key:   "orderID",
			Value: orderID,
		})
		return order, errors.NewErrorDetails("event already applied", string(errors.DuplicateEventError), "eventID")
	}

	if err := u.transition(order, event); err != nil {
		return nil, err
	}

	order.LastEventID = event.ID

	if err := u.orderRepository.Update(txCtx, order); err != nil {
		return nil, err
	}

	if err := u.dbTx.Commit(txCtx); err != nil {
		return nil, err
	}

	return order, nil
}

func (u *usecase) transition(order *orderInfra.Order, event *journalInfra.ExchangeEvent) error {
	switch event.EventType {
	case journalInfra.EventOrderAck:
		return order.Acknowledge(event.EventTime)
	case journalInfra.EventOrderReject:
		return order.Reject()
	case journalInfra.EventOrderCancel:
		return order.Cancel()
	case journalInfra.EventOrderFill:
		details, err := event.OrderDetails()
		if err != nil {
			return err
		}
		return order.Fill(details.Quantity, event.EventTime)
	}

	return errors.NewErrorDetails("event type does not apply to orders", string(errors.GeneralBadRequestError), "eventType")
}

// GetOrder gets an order by id.
func (u *usecase) GetOrder(ctx context.Context, orderID int64) (*orderInfra.Order, error) {
	order, err := u.orderRepository.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewErrorDetails("order does not exist", string(errors.OrderNotFoundError), "orderID")
	}

	return order, nil
}

// GetOrderWithClient gets an order joined with its client record.
func (u *usecase) GetOrderWithClient(ctx context.Context, orderID int64) (*orderInfra.OrderWithClient, error) {
	order, err := u.orderRepository.GetWithClient(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.NewErrorDetails("order does not exist", string(errors.OrderNotFoundError), "orderID")
	}

	return order, nil
}

// ListOrders lists orders matching the filter.
func (u *usecase) ListOrders(ctx context.Context, filter orderInfra.Filter) ([]*orderInfra.Order, error) {
	return u.orderRepository.List(ctx, filter)
}
