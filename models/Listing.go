package models

import "time"

// Listing statuses and types accepted by the API.
var (
	ListingStatuses = []string{"available", "pending", "sold"}
	ListingTypes    = []string{"cottage", "mansion", "cabin", "castle", "townhouse"}
)

type Listing struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title        string  `json:"title" gorm:"type:varchar(255);not null"`
	Description  string  `json:"description" gorm:"type:text"`
	Price        float64 `json:"price" gorm:"not null"`
	Address      string  `json:"address" gorm:"type:varchar(255);not null"`
	Neighborhood string  `json:"neighborhood" gorm:"type:varchar(200);index"`

	// Gingerbread house specific fields
	SquareFeet       *int   `json:"square_feet"`
	NumRooms         *int   `json:"num_rooms"`
	NumCandyCanes    *int   `json:"num_candy_canes"`
	HasGumdropGarden bool   `json:"has_gumdrop_garden" gorm:"default:false"`
	FrostingType     string `json:"frosting_type" gorm:"type:varchar(500)"`

	ListingType string `json:"listing_type" gorm:"type:varchar(50);default:'cottage';index"`
	Status      string `json:"status" gorm:"type:varchar(50);default:'available';index"`

	ImageURL string `json:"image_url" gorm:"type:varchar(500)"`

	// Listings imported before accounts existed have no owner; anyone may
	// edit those.
	OwnerID *uint `json:"owner_id" gorm:"index"`
	Owner   *User `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
}
