package models

import "time"

// PublicationCategory classifies a publication and drives the pricing policy.
// The category is mandatory: tax treatment is looked up, never inferred.
type PublicationCategory string

const (
	CategoryService    PublicationCategory = "service"
	CategoryEmployment PublicationCategory = "employment"
	CategoryProduct    PublicationCategory = "product"
)

// ValidPublicationCategory reports whether c is one of the enumerated categories.
func ValidPublicationCategory(c PublicationCategory) bool {
	switch c {
	case CategoryService, CategoryEmployment, CategoryProduct:
		return true
	default:
		return false
	}
}

// Publication is a listing of an offered or requested service.
type Publication struct {
	ID          string              `bson:"id" json:"id"`
	ProviderID  string              `bson:"provider_id" json:"providerId"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Category    PublicationCategory `bson:"category" json:"category"`
	Modality    string              `bson:"modality,omitempty" json:"modality,omitempty"`
	Price       *float64            `bson:"price,omitempty" json:"price,omitempty"`
	PriceUnit   PriceUnit           `bson:"price_unit,omitempty" json:"priceUnit,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}
