package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/warungpos/pos-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) AllItems(ctx context.Context) ([]model.TransactionItem, error) {
	items := []model.TransactionItem{}
	query := `SELECT * FROM transaction_items ORDER BY created_at ASC, id ASC`
	if err := r.DB.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}
