package model

type Product struct {
	BaseModel
	CategoryID  *string   `db:"category_id" json:"category_id"` // Nullable
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	Price       float64   `db:"price" json:"price"`
	Stock       int       `db:"stock" json:"stock"`
	PictureURL  *string   `db:"picture_url" json:"picture_url"`
	Category    *Category `db:"-" json:"category,omitempty"` // Joined data
}
