package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Project status values
const (
	ProjectStatusRecruiting = "recruiting"
	ProjectStatusClosed     = "closed"
)

// DefaultTotalValue is used when a business posts a project without a declared value
const DefaultTotalValue = "To be discussed"

// Project holds the structure for the projects collection in mongo.
// A project is a business-posted listing describing a collaboration opportunity.
type Project struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details ProjectDetails     `json:"project" bson:"project"`
	Version int32              `json:"__v" bson:"__v"`
}

// ProjectDetails holds the inner project document
type ProjectDetails struct {
	OwnerID             string             `json:"ownerID" bson:"ownerID"`
	OwnerName           string             `json:"ownerName" bson:"ownerName"`
	Title               string             `json:"title" bson:"title"`
	Category            string             `json:"category" bson:"category"`
	CollaborationType   string             `json:"collaborationType" bson:"collaborationType"`
	Location            string             `json:"location" bson:"location"`
	TotalValue          string             `json:"totalValue" bson:"totalValue"`
	ValueBreakdown      string             `json:"valueBreakdown" bson:"valueBreakdown"`
	ContentRequirements string             `json:"contentRequirements" bson:"contentRequirements"`
	Spots               int                `json:"spots" bson:"spots"`
	Status              string             `json:"status" bson:"status"`
	Images              []string           `json:"images" bson:"images"`
	CreatedAt           primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt           primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ProjectResponse decorates a project with its live applicant count derived
// from the invitations collection
type ProjectResponse struct {
	Project
	Applicants int64 `json:"applicants"`
}
