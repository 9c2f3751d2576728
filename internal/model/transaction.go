package model

import "time"

type Transaction struct {
	ID           string            `db:"id" json:"id"`
	CustomerName string            `db:"customer_name" json:"customer_name"`
	Note         *string           `db:"note" json:"note"`
	TotalPrice   float64           `db:"total_price" json:"total_price"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	Items        []TransactionItem `db:"-" json:"items,omitempty"`
}

type TransactionItem struct {
	ID            string    `db:"id" json:"id"`
	TransactionID string    `db:"transaction_id" json:"transaction_id"`
	ProductID     string    `db:"product_id" json:"product_id"`
	Quantity      int       `db:"quantity" json:"quantity"`
	TotalPrice    float64   `db:"total_price" json:"total_price"` // unit price x quantity at time of sale
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	ProductName   string    `db:"-" json:"product_name,omitempty"` // Resolved for display
}
