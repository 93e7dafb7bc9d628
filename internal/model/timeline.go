package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Period is a free-form from/to descriptor such as "2021" / "present".
type Period struct {
	From string `bson:"from" json:"from" validate:"required" label:"From"`
	To   string `bson:"to" json:"to" validate:"required" label:"To"`
}

// TimeLine is an entry on the career timeline.
type TimeLine struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string        `bson:"title" json:"title" validate:"required" label:"Title"`
	Description string        `bson:"description" json:"description" validate:"required" label:"Description"`
	TimeLine    Period        `bson:"timeLine" json:"timeLine"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}

// TimeLineUpdate is a partial change.
type TimeLineUpdate struct {
	Title       *string
	Description *string
	From        *string
	To          *string
}

// Apply copies the set fields onto t.
func (u TimeLineUpdate) Apply(t *TimeLine) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.From != nil {
		t.TimeLine.From = *u.From
	}
	if u.To != nil {
		t.TimeLine.To = *u.To
	}
}
