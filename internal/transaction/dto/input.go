package dto

type CheckoutInput struct {
	CustomerName string `json:"customer_name"`
	Note         string `json:"note"`
}

type CheckoutResult struct {
	TransactionID string  `json:"transaction_id"`
	Total         float64 `json:"total"`
}
