// models/request.go
package models

import "time"

const RequestTable = "gd_requests"

// Request status moves PENDING -> APPROVED or PENDING -> REJECTED, once.
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"
)

type Request struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	GadgetID string `gorm:"type:uuid;index;not null" json:"gadgetId"`

	Status   string `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	Quantity int    `gorm:"not null;default:1" json:"quantity"`
	Reason   string `gorm:"size:500" json:"reason,omitempty"`

	User   *UserRef `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Gadget *Gadget  `gorm:"foreignKey:GadgetID" json:"gadget,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Request) TableName() string { return RequestTable }
