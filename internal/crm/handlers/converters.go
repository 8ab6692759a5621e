package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/talentlane/crm/internal/crm/models"
)

// memberPayload is the wire shape for creating a member.
type memberPayload struct {
	FullName          string                `json:"fullName"`
	Email             string                `json:"email"`
	Whatsapp          string                `json:"whatsapp"`
	LinkedinURL       string                `json:"linkedinUrl"`
	Area              models.Area           `json:"area"`
	CurrentRole       string                `json:"currentRole"`
	YearsExperience   int                   `json:"yearsExperience"`
	EnglishLevel      models.EnglishLevel   `json:"englishLevel"`
	Location          string                `json:"location"`
	WorkPreference    models.WorkPreference `json:"workPreference"`
	WillingToRelocate bool                  `json:"willingToRelocate"`
	CVFileURL         string                `json:"cvFileUrl"`
	Notes             string                `json:"notes"`
}

func (p *memberPayload) toMember() *models.Member {
	return &models.Member{
		FullName:          p.FullName,
		Email:             p.Email,
		Whatsapp:          p.Whatsapp,
		LinkedinURL:       p.LinkedinURL,
		Area:              p.Area,
		CurrentRole:       p.CurrentRole,
		YearsExperience:   p.YearsExperience,
		EnglishLevel:      p.EnglishLevel,
		Location:          p.Location,
		WorkPreference:    p.WorkPreference,
		WillingToRelocate: p.WillingToRelocate,
		CVFileURL:         p.CVFileURL,
		Notes:             p.Notes,
	}
}

// memberUpdatePayload is the wire shape for a partial member update.
// Absent fields are left untouched.
type memberUpdatePayload struct {
	FullName          *string                `json:"fullName"`
	Email             *string                `json:"email"`
	Whatsapp          *string                `json:"whatsapp"`
	LinkedinURL       *string                `json:"linkedinUrl"`
	AreaCode          *models.AreaCode       `json:"areaCode"`
	OtherArea         *string                `json:"otherArea"`
	CurrentRole       *string                `json:"currentRole"`
	YearsExperience   *int                   `json:"yearsExperience"`
	EnglishLevel      *models.EnglishLevel   `json:"englishLevel"`
	Location          *string                `json:"location"`
	WorkPreference    *models.WorkPreference `json:"workPreference"`
	WillingToRelocate *bool                  `json:"willingToRelocate"`
	Notes             *string                `json:"notes"`
	HiredCompany      *string                `json:"hiredCompany"`
	HiredDate         *time.Time             `json:"hiredDate"`
	HiredSalaryUSD    *int                   `json:"hiredSalaryUsd"`
}

func (p *memberUpdatePayload) toMemberUpdate(id uuid.UUID) *models.MemberUpdate {
	return &models.MemberUpdate{
		ID:                id,
		FullName:          p.FullName,
		Email:             p.Email,
		Whatsapp:          p.Whatsapp,
		LinkedinURL:       p.LinkedinURL,
		AreaCode:          p.AreaCode,
		OtherArea:         p.OtherArea,
		CurrentRole:       p.CurrentRole,
		YearsExperience:   p.YearsExperience,
		EnglishLevel:      p.EnglishLevel,
		Location:          p.Location,
		WorkPreference:    p.WorkPreference,
		WillingToRelocate: p.WillingToRelocate,
		Notes:             p.Notes,
		HiredCompany:      p.HiredCompany,
		HiredDate:         p.HiredDate,
		HiredSalaryUSD:    p.HiredSalaryUSD,
	}
}

// referralPayload is the wire shape for creating or updating a referral.
type referralPayload struct {
	CompanyName  *string    `json:"companyName"`
	ReferralDate *time.Time `json:"referralDate"`
	Notes        *string    `json:"notes"`
}

func (p *referralPayload) toReferralUpdate(id uuid.UUID) *models.ReferralUpdate {
	return &models.ReferralUpdate{
		ID:           id,
		CompanyName:  p.CompanyName,
		ReferralDate: p.ReferralDate,
		Notes:        p.Notes,
	}
}
