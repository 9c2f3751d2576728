package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/cart"
	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/platform/logger"
	"github.com/warungpos/pos-service/internal/product"
	"github.com/warungpos/pos-service/internal/transaction"
	"github.com/warungpos/pos-service/internal/transaction/dto"
)

// EventPublisher is satisfied by the kafka producer. May be nil.
type EventPublisher interface {
	WriteMessage(ctx context.Context, key, value []byte) error
}

// CacheClient is satisfied by the redis client. May be nil; checkout locking
// and list-cache invalidation then degrade off.
type CacheClient interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type transactionUseCase struct {
	repo      transaction.Repository
	products  product.Repository
	carts     *cart.Store
	cache     CacheClient
	publisher EventPublisher
	logger    logger.Logger
}

func NewTransactionUseCase(
	repo transaction.Repository,
	products product.Repository,
	carts *cart.Store,
	cacheClient CacheClient,
	publisher EventPublisher,
	log logger.Logger,
) transaction.UseCase {
	return &transactionUseCase{
		repo:      repo,
		products:  products,
		carts:     carts,
		cache:     cacheClient,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *transactionUseCase) Checkout(ctx context.Context, registerID string, input *dto.CheckoutInput) (*dto.CheckoutResult, error) {
	c := uc.carts.Get(registerID)
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		return nil, apperr.Validation("customer name is required")
	}

	// Guard against a double-submitted checkout from the same register.
	if uc.cache != nil {
		lockKey := "lock:checkout:" + registerID
		lockValue := uuid.New().String()

		// The lock must outlive the slowest permitted checkout, or a stalled
		// store call would lose it mid-flight.
		lockTTL := 30 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			if remaining := time.Until(deadline) + time.Second; remaining > lockTTL {
				lockTTL = remaining
			}
		}

		acquired := false
		for i := 0; i < 3; i++ {
			ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, lockTTL)
			if err != nil {
				uc.logger.Error("failed to acquire checkout lock", zap.Error(err))
			}
			if ok {
				acquired = true
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if !acquired {
			return nil, apperr.Validation("a checkout for this register is already in progress")
		}
		// Release on a fresh context: the request deadline may already have
		// fired by the time the defer runs.
		defer uc.cache.ReleaseLock(context.Background(), lockKey, lockValue)
	}

	// The header total is the sum of the captured line totals, so the stored
	// transaction stays internally consistent even if the cart is edited
	// while the checkout is in flight.
	var total float64
	for _, line := range lines {
		total += line.LineTotal()
	}
	now := time.Now()

	t := &model.Transaction{
		ID:           uuid.New().String(),
		CustomerName: customerName,
		TotalPrice:   total,
		CreatedAt:    now,
	}
	if input.Note != "" {
		note := input.Note
		t.Note = &note
	}

	t.Items = make([]model.TransactionItem, 0, len(lines))
	for _, line := range lines {
		t.Items = append(t.Items, model.TransactionItem{
			ID:            uuid.New().String(),
			TransactionID: t.ID,
			ProductID:     line.ProductID,
			Quantity:      line.Quantity,
			TotalPrice:    line.LineTotal(),
			CreatedAt:     now,
		})
	}

	// All three writes commit atomically. On any failure the cart stays
	// intact so the operator can retry.
	if err := uc.repo.CreateWithItems(ctx, t); err != nil {
		return nil, err
	}

	// Only the checked-out snapshot leaves the cart; quantity added while the
	// checkout ran stays for the next one.
	c.Deduct(lines)
	go uc.invalidateProductCache(context.Background())
	go uc.publishCompleted(context.Background(), t)

	return &dto.CheckoutResult{TransactionID: t.ID, Total: total}, nil
}

func (uc *transactionUseCase) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	transactions, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "transaction listing", Err: err}
	}
	if err := uc.resolveProductNames(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (uc *transactionUseCase) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &apperr.StoreReadError{Op: "transaction lookup", Err: err}
	}
	if t == nil {
		return nil, apperr.ErrNotFound
	}

	single := []model.Transaction{*t}
	if err := uc.resolveProductNames(ctx, single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// resolveProductNames fills item display names via one IN lookup. A missing
// product row degrades to a placeholder label; it never fails the read.
func (uc *transactionUseCase) resolveProductNames(ctx context.Context, transactions []model.Transaction) error {
	idSet := map[string]struct{}{}
	ids := []string{}
	for _, t := range transactions {
		for _, item := range t.Items {
			if _, seen := idSet[item.ProductID]; !seen {
				idSet[item.ProductID] = struct{}{}
				ids = append(ids, item.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	products, err := uc.products.FindByIDs(ctx, ids)
	if err != nil {
		return &apperr.StoreReadError{Op: "product name resolution", Err: err}
	}
	nameByID := make(map[string]string, len(products))
	for _, p := range products {
		nameByID[p.ID] = p.Name
	}

	for ti := range transactions {
		for ii := range transactions[ti].Items {
			item := &transactions[ti].Items[ii]
			if name, ok := nameByID[item.ProductID]; ok {
				item.ProductName = name
			} else {
				item.ProductName = fmt.Sprintf("Unknown Product (%s)", item.ProductID)
			}
		}
	}
	return nil
}

func (uc *transactionUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPattern(ctx, "products:list:*"); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}

// publishCompleted emits the order event best-effort; a broker outage never
// fails a finished checkout.
func (uc *transactionUseCase) publishCompleted(ctx context.Context, t *model.Transaction) {
	if uc.publisher == nil {
		return
	}

	event := dto.TransactionCompletedEvent{
		EventID:   uuid.New().String(),
		EventType: "TransactionCompleted",
		Timestamp: time.Now(),
		Payload: dto.CompletedPayload{
			TransactionID: t.ID,
			CustomerName:  t.CustomerName,
			TotalPrice:    t.TotalPrice,
		},
	}
	for _, item := range t.Items {
		event.Payload.Items = append(event.Payload.Items, dto.CompletedItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}

	value, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal transaction event", zap.Error(err))
		return
	}
	if err := uc.publisher.WriteMessage(ctx, []byte(t.ID), value); err != nil {
		uc.logger.Error("failed to publish transaction event",
			zap.String("transaction_id", t.ID),
			zap.Error(err),
		)
	}
}
