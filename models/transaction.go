package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Transaction status values
const (
	TransactionStatusCreated   = "created"
	TransactionStatusCompleted = "completed"
	TransactionStatusCancelled = "cancelled"
)

// Transaction holds the structure for the transactions collection in mongo.
// A transaction records a payment-flow attempt for an accepted collaboration.
type Transaction struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details TransactionDetails `json:"transaction" bson:"transaction"`
	Version int32              `json:"__v" bson:"__v"`
}

// TransactionDetails holds the inner transaction document
type TransactionDetails struct {
	PayerID        string             `json:"payerID" bson:"payerID"`
	CounterpartyID string             `json:"counterpartyID" bson:"counterpartyID"`
	InvitationID   string             `json:"invitationID" bson:"invitationID"`
	AmountCents    int64              `json:"amountCents" bson:"amountCents"`
	Currency       string             `json:"currency" bson:"currency"`
	SessionID      string             `json:"sessionID" bson:"sessionID"`
	Status         string             `json:"status" bson:"status"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// CreateCheckoutSessionRequest is the request body for starting a payment flow
type CreateCheckoutSessionRequest struct {
	PayerID        string `json:"payerID"`
	CounterpartyID string `json:"counterpartyID"`
	InvitationID   string `json:"invitationID"`
	AmountCents    int64  `json:"amountCents"`
	Currency       string `json:"currency"`
	Description    string `json:"description"`
}
