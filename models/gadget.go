// models/gadget.go
package models

import "time"

const GadgetTable = "gd_gadgets"

// Gadget status is admin-managed and deliberately not derived from quantity.
const (
	StatusAvailable   = "AVAILABLE"
	StatusInUse       = "IN_USE"
	StatusBroken      = "BROKEN"
	StatusMaintenance = "MAINTENANCE"
)

type Gadget struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	Quantity    int       `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	Status      string    `gorm:"size:20;not null;default:'AVAILABLE'" json:"status"`
	Category    string    `gorm:"size:100;index" json:"category,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Gadget) TableName() string { return GadgetTable }

func ValidGadgetStatus(s string) bool {
	switch s {
	case StatusAvailable, StatusInUse, StatusBroken, StatusMaintenance:
		return true
	}
	return false
}
