package models

import (
	"strings"
	"time"
)

// Stage is one ordered step of the pipeline. The id is a slug derived
// from the name at creation time; Order is the 1-based position.
type Stage struct {
	ID    string `gorm:"size:64;primaryKey" json:"id"`
	Name  string `gorm:"size:50;not null" json:"name"`
	Order int    `gorm:"column:position;not null" json:"order"`

	Members []Member `gorm:"foreignKey:StageID" json:"members,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StageWithCount annotates a stage with the number of members it owns.
type StageWithCount struct {
	Stage
	MemberCount int64 `json:"memberCount"`
}

// hired stage aliases, matched case-insensitively against the stage name.
var hiredNames = []string{"hired", "contratado"}

// IsHired reports whether this is the terminal placement stage, matched
// by the well-known id or by name.
func (s *Stage) IsHired() bool {
	if s.ID == "hired" {
		return true
	}
	name := strings.ToLower(s.Name)
	for _, alias := range hiredNames {
		if name == alias {
			return true
		}
	}
	return false
}

// Slugify derives a stage id from its display name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(slug, " ", "-")
}
