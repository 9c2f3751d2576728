package dto

type CreateProductInput struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	PictureURL  string  `json:"picture_url"`
}

type UpdateProductInput struct {
	ID          string  `json:"-"`
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	PictureURL  string  `json:"picture_url"`
}
