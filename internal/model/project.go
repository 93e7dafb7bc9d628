package model

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Project is a portfolio entry with a required banner image.
type Project struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string        `bson:"title" json:"title" validate:"required,max=120" label:"Title"`
	Description   string        `bson:"description" json:"description" validate:"required" label:"Description"`
	Technologies  []string      `bson:"technologies" json:"technologies"`
	LiveLink      string        `bson:"liveLink,omitempty" json:"liveLink,omitempty" validate:"omitempty,weburl" label:"Live link"`
	GitLink       string        `bson:"gitLink,omitempty" json:"gitLink,omitempty" validate:"omitempty,weburl" label:"Git link"`
	Stack         string        `bson:"stack,omitempty" json:"stack,omitempty"`
	Languages     []string      `bson:"languages" json:"languages"`
	Deployed      bool          `bson:"deployed" json:"deployed"`
	ProjectBanner Media         `bson:"projectBanner" json:"projectBanner"`
}

// ProjectUpdate carries a partial project change.  Technologies and
// Languages are merged into the stored sets unless the matching Clear flag
// is set, in which case they replace them.
type ProjectUpdate struct {
	Title             *string
	Description       *string
	Technologies      []string
	Languages         []string
	ClearTechnologies bool
	ClearLanguages    bool
	LiveLink          *string
	GitLink           *string
	Stack             *string
	Deployed          *bool
	ProjectBanner     *Media
}

// Apply merges the update into p.
func (u ProjectUpdate) Apply(p *Project) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.ClearTechnologies {
		p.Technologies = MergeTags(nil, u.Technologies)
	} else {
		p.Technologies = MergeTags(p.Technologies, u.Technologies)
	}
	if u.ClearLanguages {
		p.Languages = MergeTags(nil, u.Languages)
	} else {
		p.Languages = MergeTags(p.Languages, u.Languages)
	}
	if u.LiveLink != nil {
		p.LiveLink = *u.LiveLink
	}
	if u.GitLink != nil {
		p.GitLink = *u.GitLink
	}
	if u.Stack != nil {
		p.Stack = *u.Stack
	}
	if u.Deployed != nil {
		p.Deployed = *u.Deployed
	}
	if u.ProjectBanner != nil {
		p.ProjectBanner = *u.ProjectBanner
	}
}

// MergeTags returns the order-preserving union of existing and incoming.
// Values are trimmed, blanks dropped and exact duplicates removed.  The
// result is never nil so it encodes as an empty array.
func MergeTags(existing, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, cap(out))
	for _, src := range [][]string{existing, incoming} {
		for _, v := range src {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
