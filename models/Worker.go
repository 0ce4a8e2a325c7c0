package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Worker is a moving-service provider profile for the shifting marketplace.
type Worker struct {
	gorm.Model
	UserID      uint           `json:"userID" gorm:"uniqueIndex;not null"`
	FullName    string         `json:"fullName" gorm:"not null"`
	Contact     string         `json:"contact" gorm:"not null"`
	Address     string         `json:"address"`
	Skills      datatypes.JSON `json:"skills"`
	VehicleType string         `json:"vehicleType"` // pickup, mini_truck, truck, none
	RatePerHour float32        `json:"ratePerHour"`
	Experience  int            `json:"experience"` // years
	IsAvailable *bool          `json:"isAvailable"`
	Rating      float32        `json:"rating"`
	User        User           `json:"user" gorm:"foreignKey:UserID;references:ID"`
}

func (w *Worker) MarshalJSON() ([]byte, error) {
	type Alias Worker
	aux := &struct {
		Skills []string `json:"skills"`
		*Alias
	}{
		Skills: []string{},
		Alias:  (*Alias)(w),
	}

	if w.Skills != nil {
		var skills []string
		if err := json.Unmarshal(w.Skills, &skills); err == nil {
			aux.Skills = skills
		}
	}

	return json.Marshal(aux)
}
