package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Message is a contact-form submission.  Messages are never edited;
// CreatedAt is set once on insert.
type Message struct {
	ID         bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	SenderName string        `bson:"senderName" json:"senderName" validate:"required,min=2,max=100" label:"Sender name"`
	Subject    string        `bson:"subject" json:"subject" validate:"required,min=2,max=200" label:"Subject"`
	Message    string        `bson:"message" json:"message" validate:"required,min=2,max=5000" label:"Message"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
}
