// models/assignment.go
package models

import "time"

const AssignmentTable = "gd_assignments"

// Assignment records that a user holds (or held) one grant of a gadget.
// Once Returned is true the row is terminal; only deletion may follow.
type Assignment struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	GadgetID string `gorm:"type:uuid;index;not null" json:"gadgetId"`

	AssignedAt time.Time  `gorm:"index;not null" json:"assignedAt"`
	Returned   bool       `gorm:"not null;default:false" json:"returned"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`
	Notes      string     `gorm:"size:500" json:"notes,omitempty"`

	User   *UserRef `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Gadget *Gadget  `gorm:"foreignKey:GadgetID" json:"gadget,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Assignment) TableName() string { return AssignmentTable }
