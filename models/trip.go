package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Trip status values. Once matched a trip does not return to open.
const (
	TripStatusOpen    = "open"
	TripStatusMatched = "matched"
)

// Trip holds the structure for the trips collection in mongo.
// A trip is a creator-posted listing describing upcoming travel open to
// collaboration offers from businesses.
type Trip struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details TripDetails        `json:"trip" bson:"trip"`
	Version int32              `json:"__v" bson:"__v"`
}

// TripDetails holds the inner trip document
type TripDetails struct {
	OwnerID     string             `json:"ownerID" bson:"ownerID"`
	OwnerName   string             `json:"ownerName" bson:"ownerName"`
	Destination string             `json:"destination" bson:"destination"`
	StartDate   string             `json:"startDate" bson:"startDate"`
	EndDate     string             `json:"endDate" bson:"endDate"`
	PartySize   int                `json:"partySize" bson:"partySize"`
	Purpose     string             `json:"purpose" bson:"purpose"`
	Needs       string             `json:"needs" bson:"needs"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// TripResponse decorates a trip with its live offer count derived from the
// invitations collection
type TripResponse struct {
	Trip
	Offers int64 `json:"offers"`
}
