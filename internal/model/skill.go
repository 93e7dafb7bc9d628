package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Proficiency is one of four fixed levels.
type Proficiency string

const (
	Beginner     Proficiency = "Beginner"
	Intermediate Proficiency = "Intermediate"
	Advanced     Proficiency = "Advanced"
	Expert       Proficiency = "Expert"
)

var proficiencies = []Proficiency{Beginner, Intermediate, Advanced, Expert}

// NormalizeProficiency matches raw case-insensitively and returns the
// canonical spelling.
func NormalizeProficiency(raw string) (Proficiency, bool) {
	raw = strings.TrimSpace(raw)
	for _, p := range proficiencies {
		if strings.EqualFold(raw, string(p)) {
			return p, true
		}
	}
	return Proficiency(raw), false
}

// Skill is a titled proficiency with an icon.
type Skill struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title" json:"title" validate:"required,max=80" label:"Title"`
	Proficiency Proficiency   `bson:"proficiency" json:"proficiency" validate:"required,proficiency" label:"Proficiency"`
	SVG         Media         `bson:"svg" json:"svg"`
}

// SkillUpdate is a partial skill change.
type SkillUpdate struct {
	Title       *string
	Proficiency *Proficiency
	SVG         *Media
}

// Apply copies the set fields onto s.
func (u SkillUpdate) Apply(s *Skill) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Proficiency != nil {
		s.Proficiency = *u.Proficiency
	}
	if u.SVG != nil {
		s.SVG = *u.SVG
	}
}
