package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser       = "user"
	RoleLandlord   = "landlord"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	Password            string         `json:"password"`
	AvatarURL           string         `json:"avatarURL"`
	Bio                 string         `json:"bio"`
	SavedListings       datatypes.JSON `json:"savedListings"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
	Listings            []Listing      `json:"listings" gorm:"foreignKey:UserID;references:ID"`
	Role                string         `json:"role" gorm:"type:varchar(20);default:user;index"` // user, landlord, admin, super_admin
}

// Custom JSON marshaling to handle JSON fields and hide the password hash
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Password      string   `json:"password,omitempty"`
		SavedListings []int    `json:"savedListings,omitempty"`
		PushTokens    []string `json:"pushTokens,omitempty"`
		*Alias
	}{
		SavedListings: []int{},
		PushTokens:    []string{},
		Alias:         (*Alias)(u),
	}

	if u.SavedListings != nil {
		var savedListings []int
		if err := json.Unmarshal(u.SavedListings, &savedListings); err == nil {
			aux.SavedListings = savedListings
		}
	}

	if u.PushTokens != nil {
		var pushTokens []string
		if err := json.Unmarshal(u.PushTokens, &pushTokens); err == nil {
			aux.PushTokens = pushTokens
		}
	}

	// Note: Listings field is excluded to prevent circular reference
	return json.Marshal(aux)
}
