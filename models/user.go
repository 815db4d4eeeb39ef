package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Account roles recognized by the platform
const (
	RoleBusiness = "business"
	RoleCreator  = "creator"
)

// User holds the structure for the user collection in mongo
type User struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details UserDetails        `json:"user" bson:"user"`
	Version int32              `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as defined in the user collection in mongo
type UserDetails struct {
	Email          string      `json:"email" bson:"email"`
	Name           string      `json:"name" bson:"name"`
	Password       string      `json:"password" bson:"password"`
	Role           string      `json:"role" bson:"role"`
	ProfilePicture string      `json:"profilePicture" bson:"profilePicture"`
	Location       string      `json:"location" bson:"location"`
	MediaKit       *MediaKit   `json:"mediaKit,omitempty" bson:"mediaKit,omitempty"`
	Online         bool        `json:"online" bson:"online"`
	CreatedAt      interface{} `json:"createdAt" bson:"createdAt"`
	UpdatedAt      interface{} `json:"updatedAt" bson:"updatedAt"`
}

// MediaKit is a creator's denormalized profile summary used for matching display
type MediaKit struct {
	Handle         string             `json:"handle" bson:"handle"`
	Niche          string             `json:"niche" bson:"niche"`
	Rates          string             `json:"rates" bson:"rates"`
	Followers      int                `json:"followers" bson:"followers"`
	EngagementRate float64            `json:"engagementRate" bson:"engagementRate"`
	Platforms      []MediaKitPlatform `json:"platforms,omitempty" bson:"platforms,omitempty"`
}

// MediaKitPlatform represents a social media platform connection inside a media kit
type MediaKitPlatform struct {
	Type      string `json:"type" bson:"type"` // instagram, youtube, tiktok, other
	URL       string `json:"url" bson:"url"`
	Handle    string `json:"handle" bson:"handle"`
	Followers int    `json:"followers" bson:"followers"`
}

// CreateUserRequest is the request body for registering a new account
type CreateUserRequest struct {
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Password string    `json:"password"`
	Role     string    `json:"role"`
	Location string    `json:"location"`
	MediaKit *MediaKit `json:"mediaKit,omitempty"`
}
