package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/cart"
	"github.com/warungpos/pos-service/internal/model"
	"github.com/warungpos/pos-service/internal/platform/logger"
	productdto "github.com/warungpos/pos-service/internal/product/dto"
	"github.com/warungpos/pos-service/internal/transaction/dto"
)

type fakeTxRepo struct {
	createErr  error
	createCnt  int
	created    *model.Transaction
	findAll    []model.Transaction
	findAllErr error
	findByID   *model.Transaction
}

func (f *fakeTxRepo) CreateWithItems(ctx context.Context, t *model.Transaction) error {
	f.createCnt++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = t
	return nil
}

func (f *fakeTxRepo) FindAll(ctx context.Context) ([]model.Transaction, error) {
	return f.findAll, f.findAllErr
}

func (f *fakeTxRepo) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	return f.findByID, nil
}

type fakeProductRepo struct {
	byID map[string]model.Product
	cnt  int
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error { return nil }
func (f *fakeProductRepo) Delete(ctx context.Context, id string) error        { return nil }
func (f *fakeProductRepo) FindAll(ctx context.Context, filters *productdto.ProductFilters) ([]model.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	f.cnt++
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	f.cnt++
	out := []model.Product{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu         sync.Mutex
	acquireOK  bool
	lockTTL    time.Duration
	releaseCtx context.Context
	deleted    []string
}

func (f *fakeCache) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockTTL = ttl
	return f.acquireOK, nil
}

func (f *fakeCache) ReleaseLock(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCtx = ctx
	return nil
}

func (f *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, pattern)
	return nil
}

type capturePublisher struct {
	messages chan []byte
}

func (p *capturePublisher) WriteMessage(ctx context.Context, key, value []byte) error {
	p.messages <- value
	return nil
}

func cartWith(t *testing.T, carts *cart.Store, registerID string, items ...cart.Line) *cart.Cart {
	t.Helper()
	c := carts.Get(registerID)
	for _, l := range items {
		p := &model.Product{
			BaseModel: model.BaseModel{ID: l.ProductID},
			Name:      l.Name,
			Price:     l.UnitPrice,
			Stock:     l.Stock,
		}
		c.AddItem(p, l.Quantity)
	}
	return c
}

func TestCheckoutValidation(t *testing.T) {
	tests := map[string]struct {
		lines   []cart.Line
		input   dto.CheckoutInput
		wantMsg string
	}{
		"empty cart": {
			lines:   nil,
			input:   dto.CheckoutInput{CustomerName: "Budi"},
			wantMsg: "cart is empty",
		},
		"empty customer name": {
			lines:   []cart.Line{{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 1, Stock: 5}},
			input:   dto.CheckoutInput{CustomerName: ""},
			wantMsg: "customer name is required",
		},
		"whitespace customer name": {
			lines:   []cart.Line{{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 1, Stock: 5}},
			input:   dto.CheckoutInput{CustomerName: "   "},
			wantMsg: "customer name is required",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &fakeTxRepo{}
			carts := cart.NewStore()
			cartWith(t, carts, "r1", tc.lines...)
			uc := NewTransactionUseCase(repo, &fakeProductRepo{}, carts, nil, nil, logger.NewNop())

			_, err := uc.Checkout(context.Background(), "r1", &tc.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, err.Error(), tc.wantMsg)
			// The store must never be contacted on a validation failure.
			assert.Equal(t, 0, repo.createCnt)
		})
	}
}

func TestCheckoutPersistsTotalsAndClearsCart(t *testing.T) {
	repo := &fakeTxRepo{}
	carts := cart.NewStore()
	c := cartWith(t, carts, "r1",
		cart.Line{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 2, Stock: 10},
		cart.Line{ProductID: "p2", Name: "Cake", UnitPrice: 2500, Quantity: 1, Stock: 5},
	)
	uc := NewTransactionUseCase(repo, &fakeProductRepo{}, carts, nil, nil, logger.NewNop())

	result, err := uc.Checkout(context.Background(), "r1", &dto.CheckoutInput{
		CustomerName: "Budi",
		Note:         "no sugar",
	})

	require.NoError(t, err)
	assert.Equal(t, float64(4500), result.Total)
	assert.NotEmpty(t, result.TransactionID)

	require.NotNil(t, repo.created)
	assert.Equal(t, "Budi", repo.created.CustomerName)
	require.NotNil(t, repo.created.Note)
	assert.Equal(t, "no sugar", *repo.created.Note)
	assert.Equal(t, float64(4500), repo.created.TotalPrice)

	// Line totals are unit price x quantity from the add-time snapshot.
	require.Len(t, repo.created.Items, 2)
	assert.Equal(t, "p1", repo.created.Items[0].ProductID)
	assert.Equal(t, float64(2000), repo.created.Items[0].TotalPrice)
	assert.Equal(t, "p2", repo.created.Items[1].ProductID)
	assert.Equal(t, float64(2500), repo.created.Items[1].TotalPrice)

	assert.True(t, c.IsEmpty(), "cart must be cleared after a successful checkout")
}

// The persisted header total must equal the sum of the persisted item totals
// even while another goroutine keeps editing the same cart.
func TestCheckoutTotalMatchesItemSumUnderConcurrentEdits(t *testing.T) {
	repo := &fakeTxRepo{}
	carts := cart.NewStore()
	c := carts.Get("r1")
	uc := NewTransactionUseCase(repo, &fakeProductRepo{}, carts, nil, nil, logger.NewNop())

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		qty := 1
		for {
			select {
			case <-stop:
				return
			default:
			}
			c.SetQuantity("p1", qty)
			qty = 1001 - qty // flip between 1 and 1000
		}
	}()

	p := &model.Product{BaseModel: model.BaseModel{ID: "p1"}, Name: "Coffee", Price: 1000, Stock: 10}
	for i := 0; i < 200; i++ {
		c.Clear()
		c.AddItem(p, 1)

		result, err := uc.Checkout(context.Background(), "r1", &dto.CheckoutInput{CustomerName: "Budi"})
		require.NoError(t, err)

		var sum float64
		for _, item := range repo.created.Items {
			sum += item.TotalPrice
		}
		require.Equal(t, sum, repo.created.TotalPrice)
		require.Equal(t, sum, result.Total)
	}
	close(stop)
	<-done
}

func TestCheckoutKeepsLinesAddedMidFlight(t *testing.T) {
	repo := &fakeTxRepo{}
	carts := cart.NewStore()
	c := cartWith(t, carts, "r1",
		cart.Line{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 2, Stock: 10},
	)
	_ = NewTransactionUseCase(repo, &fakeProductRepo{}, carts, nil, nil, logger.NewNop())

	// A quantity bump landing after the snapshot was taken but before the
	// writes finish must survive the checkout.
	snap := c.Lines()
	c.AddItem(&model.Product{BaseModel: model.BaseModel{ID: "p1"}, Name: "Coffee", Price: 1000, Stock: 10}, 3)
	c.Deduct(snap)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCheckoutLockCoversDeadlineAndReleases(t *testing.T) {
	repo := &fakeTxRepo{}
	carts := cart.NewStore()
	cartWith(t, carts, "r1",
		cart.Line{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 1, Stock: 5},
	)
	cacheClient := &fakeCache{acquireOK: true}
	uc := NewTransactionUseCase(repo, &fakeProductRepo{}, carts, cacheClient, nil, logger.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	_, err := uc.Checkout(ctx, "r1", &dto.CheckoutInput{CustomerName: "Budi"})
	cancel()
	require.NoError(t, err)

	cacheClient.mu.Lock()
	defer cacheClient.mu.Unlock()

	// The lock must not expire before the checkout deadline does.
	assert.GreaterOrEqual(t, cacheClient.lockTTL, 20*time.Second)

	// The release must work even once the request context is gone.
	require.NotNil(t, cacheClient.releaseCtx)
	assert.NoError(t, cacheClient.releaseCtx.Err())
	_, hasDeadline := cacheClient.releaseCtx.Deadline()
	assert.False(t, hasDeadline)
}

func TestCheckoutLockContention(t *testing.T) {
	carts := cart.NewStore()
	cartWith(t, carts, "r1",
		cart.Line{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 1, Stock: 5},
	)
	uc := NewTransactionUseCase(&fakeTxRepo{}, &fakeProductRepo{}, carts, &fakeCache{acquireOK: false}, nil, logger.NewNop())

	_, err := uc.Checkout(context.Background(), "r1", &dto.CheckoutInput{CustomerName: "Budi"})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "already in progress")
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	repo := &fakeTxRepo{
		createErr: &apperr.StoreWriteError{Step: "stock update", Err: errors.New("insufficient stock for product p2")},
	}
	carts := cart.NewStore()
	c := cartWith(t, carts, "r1",
		cart.Line{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 2, Stock: 10},
		cart.Line{ProductID: "p2", Name: "Cake", UnitPrice: 2500, Quantity: 1, Stock: 0},
		cart.Line{ProductID: "p3", Name: "Tea", UnitPrice: 500, Quantity: 3, Stock: 9},
	)
	uc := NewTransactionUseCase(repo, &fakeProductRepo{}, carts, nil, nil, logger.NewNop())

	_, err := uc.Checkout(context.Background(), "r1", &dto.CheckoutInput{CustomerName: "Budi"})

	require.Error(t, err)
	var writeErr *apperr.StoreWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, "stock update", writeErr.Step)

	// Fail loud, don't clear: the operator can retry the same cart.
	assert.Len(t, c.Lines(), 3)
	assert.Equal(t, float64(6000), c.Total())
}

func TestCheckoutPublishesCompletedEvent(t *testing.T) {
	repo := &fakeTxRepo{}
	carts := cart.NewStore()
	cartWith(t, carts, "r1",
		cart.Line{ProductID: "p1", Name: "Coffee", UnitPrice: 1000, Quantity: 2, Stock: 10},
	)
	pub := &capturePublisher{messages: make(chan []byte, 1)}
	uc := NewTransactionUseCase(repo, &fakeProductRepo{}, carts, nil, pub, logger.NewNop())

	result, err := uc.Checkout(context.Background(), "r1", &dto.CheckoutInput{CustomerName: "Budi"})
	require.NoError(t, err)

	select {
	case msg := <-pub.messages:
		assert.Contains(t, string(msg), "TransactionCompleted")
		assert.Contains(t, string(msg), result.TransactionID)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a published event")
	}
}

func TestListTransactionsResolvesNames(t *testing.T) {
	created := time.Now()
	repo := &fakeTxRepo{
		findAll: []model.Transaction{
			{
				ID:           "t1",
				CustomerName: "Budi",
				TotalPrice:   4500,
				CreatedAt:    created,
				Items: []model.TransactionItem{
					{ID: "i1", TransactionID: "t1", ProductID: "p1", Quantity: 2, TotalPrice: 2000},
					{ID: "i2", TransactionID: "t1", ProductID: "gone", Quantity: 1, TotalPrice: 2500},
				},
			},
		},
	}
	products := &fakeProductRepo{byID: map[string]model.Product{
		"p1": {BaseModel: model.BaseModel{ID: "p1"}, Name: "Coffee"},
	}}
	uc := NewTransactionUseCase(repo, products, cart.NewStore(), nil, nil, logger.NewNop())

	transactions, err := uc.ListTransactions(context.Background())

	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Len(t, transactions[0].Items, 2)
	assert.Equal(t, "Coffee", transactions[0].Items[0].ProductName)
	// A deleted product degrades to a placeholder, never an error.
	assert.Equal(t, "Unknown Product (gone)", transactions[0].Items[1].ProductName)
}

func TestGetTransactionNotFound(t *testing.T) {
	uc := NewTransactionUseCase(&fakeTxRepo{}, &fakeProductRepo{}, cart.NewStore(), nil, nil, logger.NewNop())

	_, err := uc.GetTransaction(context.Background(), "missing")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
