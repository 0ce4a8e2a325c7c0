package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Listing struct {
	gorm.Model
	UserID       uint    `json:"userID" gorm:"index;not null"` // landlord
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	ListingType  string  `json:"listingType" gorm:"type:varchar(20);default:'rent'"`  // rent, sale
	PropertyType string  `json:"propertyType"`                                        // house, apartment, room, flat
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 string  `json:"addressLine2"`
	City         string  `json:"city"`
	District     string  `json:"district"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float32 `json:"bathrooms"`
	Kitchens     int     `json:"kitchens"`
	Floors       int     `json:"floors"`
	Area         float32 `json:"area"` // square feet
	Price        float32 `json:"price"`
	Currency     string  `json:"currency"` // NPR
	Amenities    string  `json:"amenities"` // JSON array string
	Images       string  `json:"images"`    // JSON array of URLs
	IsActive     *bool   `json:"isActive"`
	Rating       float32 `json:"rating"`

	// Admin moderation fields
	Status     string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected
	IsFlagged  bool   `json:"isFlagged" gorm:"default:false;index"`
	FlagReason string `json:"flagReason" gorm:"type:text"`

	Owner    User      `json:"owner" gorm:"foreignKey:UserID;references:ID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:ListingID"`
}

// Custom JSON marshaling to convert Images and Amenities strings to arrays
func (l *Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		Images    []string `json:"images"`
		Amenities []string `json:"amenities"`
		Owner     *User    `json:"owner,omitempty"`
		*Alias
	}{
		Images:    []string{},
		Amenities: []string{},
		Owner:     nil,
		Alias:     (*Alias)(l),
	}

	if l.Images != "" {
		var images []string
		if err := json.Unmarshal([]byte(l.Images), &images); err == nil {
			aux.Images = images
		}
	}

	if l.Amenities != "" {
		var amenities []string
		if err := json.Unmarshal([]byte(l.Amenities), &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	// Only include owner if loaded, and strip their listings to avoid a cycle
	if l.Owner.ID > 0 {
		ownerCopy := l.Owner
		ownerCopy.Listings = nil
		aux.Owner = &ownerCopy
	}

	return json.Marshal(aux)
}
