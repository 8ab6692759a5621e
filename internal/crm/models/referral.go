package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral records that a member was put forward to a company.
type Referral struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MemberID     uuid.UUID `gorm:"type:uuid;not null;index" json:"memberId"`
	CompanyName  string    `gorm:"size:255;not null" json:"companyName"`
	ReferralDate time.Time `gorm:"not null" json:"referralDate"`
	Notes        string    `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReferralUpdate represents the fields that can be updated on a Referral.
type ReferralUpdate struct {
	ID           uuid.UUID
	CompanyName  *string
	ReferralDate *time.Time
	Notes        *string
}
