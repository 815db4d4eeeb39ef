package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Invitation kinds. An invite is business-initiated towards a creator, an
// application is creator-initiated towards a business listing.
const (
	InvitationKindInvite      = "invite"
	InvitationKindApplication = "application"
)

// Invitation status values. pending is the initial state, accepted and
// declined are terminal.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
)

// Listing reference types
const (
	ListingTypeProject = "project"
	ListingTypeTrip    = "trip"
)

// Invitation holds the structure for the invitations collection in mongo.
// It is the central entity of the matching subsystem: a proposal between a
// business and a creator carrying a three-state lifecycle status.
type Invitation struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details InvitationDetails  `json:"invitation" bson:"invitation"`
	Version int32              `json:"__v" bson:"__v"`
}

// InvitationDetails holds the inner invitation document. FromUserID and
// ToUserID are stable identity keys; FromIdentity and ToIdentity carry the
// display name or handle used for presentation and legacy matching.
type InvitationDetails struct {
	Kind         string              `json:"kind" bson:"kind"`
	FromUserID   string              `json:"fromUserID" bson:"fromUserID"`
	ToUserID     string              `json:"toUserID" bson:"toUserID"`
	FromIdentity string              `json:"fromIdentity" bson:"fromIdentity"`
	ToIdentity   string              `json:"toIdentity" bson:"toIdentity"`
	Message      string              `json:"message" bson:"message"`
	Status       string              `json:"status" bson:"status"`
	ListingRef   *ListingRef         `json:"listingRef,omitempty" bson:"listingRef,omitempty"`
	MediaKit     *MediaKit           `json:"mediaKit,omitempty" bson:"mediaKit,omitempty"`
	CreatedAt    primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	RespondedAt  *primitive.DateTime `json:"respondedAt,omitempty" bson:"respondedAt,omitempty"`
}

// ListingRef is a snapshot of the listing an invitation refers to, taken at
// creation time so the reference survives later listing edits
type ListingRef struct {
	ListingID   string `json:"listingID" bson:"listingID"`
	ListingType string `json:"listingType" bson:"listingType"`
	Title       string `json:"title" bson:"title"`
	Value       string `json:"value" bson:"value"`
}

// ValidInvitationStatus reports whether s is one of the recognized
// invitation lifecycle states
func ValidInvitationStatus(s string) bool {
	switch s {
	case InvitationStatusPending, InvitationStatusAccepted, InvitationStatusDeclined:
		return true
	}
	return false
}

// CreateInvitationRequest is the request body for creating an invitation or
// application
type CreateInvitationRequest struct {
	Kind         string      `json:"kind"`
	FromUserID   string      `json:"fromUserID"`
	ToUserID     string      `json:"toUserID"`
	FromIdentity string      `json:"fromIdentity"`
	ToIdentity   string      `json:"toIdentity"`
	Message      string      `json:"message"`
	ListingRef   *ListingRef `json:"listingRef,omitempty"`
	MediaKit     *MediaKit   `json:"mediaKit,omitempty"`
}

// TransitionStatusRequest is the request body for an invitation status change
type TransitionStatusRequest struct {
	Status string `json:"status"`
}

// ApplicantResponse decorates an application with the creator profile shown
// to the reviewing business. MediaKit is the snapshot embedded at apply time
// or, when absent, the applicant's live profile media kit.
type ApplicantResponse struct {
	Invitation
	Applicant *UserDetails `json:"applicant,omitempty"`
}
