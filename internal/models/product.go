package models

// Product represents a catalog entry. It is created once and never modified.
type Product struct {
	ProductID         string `json:"product_id" dynamodbav:"product_id" gorm:"column:product_id;primaryKey;type:varchar(36)" validate:"required,uuid4"`
	ProductName       string `json:"product_name" dynamodbav:"product_name" gorm:"column:product_name"`
	Price             Price  `json:"price" dynamodbav:"price" gorm:"column:price"`
	BrandName         string `json:"brand_name" dynamodbav:"brand_name" gorm:"column:brand_name"`
	QuantityAvailable int    `json:"quantity_available" dynamodbav:"quantity_available" gorm:"column:quantity_available" validate:"gte=0"`
	CreatedAt         string `json:"created_at" dynamodbav:"created_at" gorm:"column:created_at;index" validate:"required"`
	// Image fields are set together or not at all.
	ImageURL string `json:"image_url,omitempty" dynamodbav:"image_url,omitempty" gorm:"column:image_url" validate:"required_with=ImageKey"`
	ImageKey string `json:"image_key,omitempty" dynamodbav:"image_key,omitempty" gorm:"column:image_key" validate:"required_with=ImageURL"`
}

// TableName pins the SQL table name.
func (Product) TableName() string {
	return "products"
}

// HasImage reports whether an image was stored for the product.
func (p *Product) HasImage() bool {
	return p.ImageURL != "" && p.ImageKey != ""
}
