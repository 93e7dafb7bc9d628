package model

import "go.mongodb.org/mongo-driver/v2/bson"

// SoftwareApplication is a tool shown on the portfolio with its icon.
type SoftwareApplication struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name string        `bson:"name" json:"name" validate:"required,max=80" label:"Name"`
	SVG  Media         `bson:"svg" json:"svg"`
}

// SoftwareApplicationUpdate is a partial change.
type SoftwareApplicationUpdate struct {
	Name *string
	SVG  *Media
}

// Apply copies the set fields onto a.
func (u SoftwareApplicationUpdate) Apply(a *SoftwareApplication) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.SVG != nil {
		a.SVG = *u.SVG
	}
}
