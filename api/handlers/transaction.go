package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/collabstay/collabstay-api/api"
	"github.com/collabstay/collabstay-api/config"
	"github.com/collabstay/collabstay-api/databases"
	"github.com/collabstay/collabstay-api/models"
)

// Payment exported for testing purposes
type Payment struct {
	DB      databases.TransactionDatabase
	BaseURL string
}

// CreateCheckoutSessionHandler starts a payment flow for an accepted
// collaboration and records the transaction as created
func (p Payment) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.AmountCents <= 0 {
		config.ErrorStatus("amount must be positive", http.StatusBadRequest, w, nil)
		return
	}
	if req.Currency == "" {
		req.Currency = "usd"
	}
	description := req.Description
	if description == "" {
		description = "Collaboration payment"
	}

	txnID := primitive.NewObjectID()

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/api/v1/payment/success?txn=%s", p.BaseURL, txnID.Hex())),
		CancelURL:  stripe.String(fmt.Sprintf("%s/api/v1/payment/cancel?txn=%s", p.BaseURL, txnID.Hex())),
	}

	s, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusInternalServerError, w, err)
		return
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	txn := models.Transaction{
		ID: txnID,
		Details: models.TransactionDetails{
			PayerID:        req.PayerID,
			CounterpartyID: req.CounterpartyID,
			InvitationID:   req.InvitationID,
			AmountCents:    req.AmountCents,
			Currency:       req.Currency,
			SessionID:      s.ID,
			Status:         models.TransactionStatusCreated,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := p.DB.InsertOne(ctx, txn); err != nil {
		config.ErrorStatus("failed to record transaction", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"sessionId": s.ID,
		"url":       s.URL,
		"txn":       txnID.Hex(),
	})
}

// HandleSuccessRedirect marks the transaction completed after checkout
func (p Payment) HandleSuccessRedirect(w http.ResponseWriter, r *http.Request) {
	p.settle(w, r, models.TransactionStatusCompleted, "Payment complete. You can close this window.")
}

// HandleCancelRedirect marks the transaction cancelled after an abandoned checkout
func (p Payment) HandleCancelRedirect(w http.ResponseWriter, r *http.Request) {
	p.settle(w, r, models.TransactionStatusCancelled, "Payment cancelled. You can close this window.")
}

func (p Payment) settle(w http.ResponseWriter, r *http.Request, status, message string) {
	txnID := r.URL.Query().Get("txn")

	tID, err := primitive.ObjectIDFromHex(txnID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{"$set": bson.M{
		"transaction.status":    status,
		"transaction.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	if err := p.DB.UpdateOne(ctx, bson.M{"_id": tID}, update); err != nil {
		config.ErrorStatus("failed to update transaction", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", message)
}
