package dto

import "time"

// TransactionCompletedEvent is published to the order events topic after a
// successful checkout. Consumers (reporting, receipt archival) are outside
// this service.
type TransactionCompletedEvent struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	Payload   CompletedPayload `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
}

type CompletedPayload struct {
	TransactionID string          `json:"transaction_id"`
	CustomerName  string          `json:"customer_name"`
	TotalPrice    float64         `json:"total_price"`
	Items         []CompletedItem `json:"items"`
}

type CompletedItem struct {
	ProductID  string  `json:"product_id"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
}
