package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/warungpos/pos-service/internal/apperr"
	"github.com/warungpos/pos-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateWithItems(ctx context.Context, t *model.Transaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return &apperr.StoreWriteError{Step: "transaction creation", Err: err}
	}
	defer tx.Rollback()

	headerQuery := `
        INSERT INTO transactions (id, customer_name, note, total_price, created_at)
        VALUES (:id, :customer_name, :note, :total_price, :created_at)
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, t); err != nil {
		return &apperr.StoreWriteError{Step: "transaction creation", Err: err}
	}

	itemQuery := `
        INSERT INTO transaction_items (id, transaction_id, product_id, quantity, total_price, created_at)
        VALUES (:id, :transaction_id, :product_id, :quantity, :total_price, :created_at)
    `
	if _, err := tx.NamedExecContext(ctx, itemQuery, t.Items); err != nil {
		return &apperr.StoreWriteError{Step: "transaction items", Err: err}
	}

	// The stock >= quantity guard makes an oversell roll back the whole
	// checkout instead of driving the count negative.
	stockQuery := `
        UPDATE products
        SET stock = stock - $1, updated_at = now()
        WHERE id = $2 AND stock >= $1
    `
	for _, item := range t.Items {
		res, err := tx.ExecContext(ctx, stockQuery, item.Quantity, item.ProductID)
		if err != nil {
			return &apperr.StoreWriteError{Step: "stock update", Err: err}
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return &apperr.StoreWriteError{Step: "stock update", Err: err}
		}
		if rows == 0 {
			return fmt.Errorf("%w for product %s", apperr.ErrInsufficientStock, item.ProductID)
		}
	}

	if err := tx.Commit(); err != nil {
		return &apperr.StoreWriteError{Step: "transaction commit", Err: err}
	}
	return nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	query := `SELECT * FROM transactions ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &transactions, query); err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return transactions, nil
	}

	ids := make([]string, len(transactions))
	byID := make(map[string]*model.Transaction, len(transactions))
	for i := range transactions {
		ids[i] = transactions[i].ID
		byID[transactions[i].ID] = &transactions[i]
	}

	itemQuery, args, err := sqlx.In(
		`SELECT * FROM transaction_items WHERE transaction_id IN (?) ORDER BY created_at ASC`, ids)
	if err != nil {
		return nil, err
	}
	itemQuery = r.DB.Rebind(itemQuery)

	items := []model.TransactionItem{}
	if err := r.DB.SelectContext(ctx, &items, itemQuery, args...); err != nil {
		return nil, err
	}
	for _, item := range items {
		if t, ok := byID[item.TransactionID]; ok {
			t.Items = append(t.Items, item)
		}
	}

	return transactions, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	query := `SELECT * FROM transactions WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	items := []model.TransactionItem{}
	itemQuery := `SELECT * FROM transaction_items WHERE transaction_id = $1 ORDER BY created_at ASC`
	if err := r.DB.SelectContext(ctx, &items, itemQuery, id); err != nil {
		return nil, err
	}
	t.Items = items

	return &t, nil
}
