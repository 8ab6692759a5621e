// Package models defines the domain models for the recruiting pipeline:
// Member, Stage, Referral and the staff User, configured for GORM.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AreaCode enumerates the professional areas a member can belong to.
type AreaCode string

const (
	AreaDevelopment AreaCode = "DEVELOPMENT"
	AreaDesign      AreaCode = "DESIGN"
	AreaMarketing   AreaCode = "MARKETING"
	AreaOperations  AreaCode = "OPERATIONS"
	AreaSales       AreaCode = "SALES"
	AreaData        AreaCode = "DATA"
	AreaFinance     AreaCode = "FINANCE"
	AreaOther       AreaCode = "OTHER"
)

// Valid reports whether the code is one of the known areas.
func (c AreaCode) Valid() bool {
	switch c {
	case AreaDevelopment, AreaDesign, AreaMarketing, AreaOperations,
		AreaSales, AreaData, AreaFinance, AreaOther:
		return true
	}
	return false
}

// Area is the professional-area selection. Other carries the free-text
// description and is only meaningful when Code is AreaOther.
type Area struct {
	Code  AreaCode `gorm:"column:area;size:20" json:"code"`
	Other string   `gorm:"column:other_area;size:100" json:"other,omitempty"`
}

// Valid reports whether the selection is consistent: a known code, and
// free text only together with the OTHER escape hatch.
func (a Area) Valid() bool {
	if !a.Code.Valid() {
		return false
	}
	return a.Other == "" || a.Code == AreaOther
}

// EnglishLevel enumerates self-reported English proficiency.
type EnglishLevel string

const (
	EnglishBasic        EnglishLevel = "BASIC"
	EnglishIntermediate EnglishLevel = "INTERMEDIATE"
	EnglishAdvanced     EnglishLevel = "ADVANCED"
	EnglishNative       EnglishLevel = "NATIVE"
)

func (l EnglishLevel) Valid() bool {
	switch l {
	case EnglishBasic, EnglishIntermediate, EnglishAdvanced, EnglishNative:
		return true
	}
	return false
}

// WorkPreference enumerates where a member is willing to work from.
type WorkPreference string

const (
	WorkRemote WorkPreference = "REMOTE"
	WorkHybrid WorkPreference = "HYBRID"
	WorkOnsite WorkPreference = "ONSITE"
)

func (p WorkPreference) Valid() bool {
	switch p {
	case WorkRemote, WorkHybrid, WorkOnsite:
		return true
	}
	return false
}

// Member is a candidate tracked through the pipeline. A member always
// belongs to exactly one stage; the hire fields are only populated once
// the member reaches the terminal stage.
type Member struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName          string         `gorm:"size:100;not null" json:"fullName"`
	Whatsapp          string         `gorm:"size:20" json:"whatsapp"`
	LinkedinURL       string         `gorm:"size:255" json:"linkedinUrl"`
	Area              Area           `gorm:"embedded" json:"area"`
	CurrentRole       string         `gorm:"size:100" json:"currentRole"`
	YearsExperience   int            `gorm:"check:years_experience >= 0" json:"yearsExperience"`
	EnglishLevel      EnglishLevel   `gorm:"size:20" json:"englishLevel"`
	Location          string         `gorm:"size:255" json:"location"`
	WorkPreference    WorkPreference `gorm:"size:10" json:"workPreference"`
	WillingToRelocate bool           `json:"willingToRelocate"`
	CVFileURL         string         `gorm:"size:512" json:"cvFileUrl"`
	// CVText holds the text extracted from the uploaded résumé, when
	// extraction succeeded. Empty otherwise.
	CVText  string `gorm:"type:text" json:"-"`
	Notes   string `gorm:"type:text" json:"notes"`
	StageID string `gorm:"size:64;not null;index" json:"stageId"`
	Stage   *Stage `gorm:"foreignKey:StageID" json:"stage,omitempty"`

	Referrals []Referral `gorm:"constraint:OnDelete:CASCADE" json:"referrals,omitempty"`

	HiredCompany   *string    `gorm:"size:255" json:"hiredCompany,omitempty"`
	HiredDate      *time.Time `json:"hiredDate,omitempty"`
	HiredSalaryUSD *int       `gorm:"column:hired_salary_usd" json:"hiredSalaryUsd,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemberUpdate represents the fields that can be updated on a Member.
// Pointer types are used to allow partial updates. The stage reference is
// deliberately absent; stage changes go through the transition operation.
type MemberUpdate struct {
	ID                uuid.UUID
	Email             *string
	FullName          *string
	Whatsapp          *string
	LinkedinURL       *string
	AreaCode          *AreaCode `gorm:"column:area"`
	OtherArea         *string   `gorm:"column:other_area"`
	CurrentRole       *string
	YearsExperience   *int
	EnglishLevel      *EnglishLevel
	Location          *string
	WorkPreference    *WorkPreference
	WillingToRelocate *bool
	Notes             *string
	HiredCompany      *string
	HiredDate         *time.Time
	HiredSalaryUSD    *int `gorm:"column:hired_salary_usd"`
}

// HiredInfo is the hire outcome recorded when a member is moved to the
// terminal stage.
type HiredInfo struct {
	Company   string    `json:"company"`
	Date      time.Time `json:"date"`
	SalaryUSD int       `json:"salaryUsd"`
}
