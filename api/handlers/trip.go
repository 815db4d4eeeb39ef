package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/collabstay/collabstay-api/api"
	"github.com/collabstay/collabstay-api/config"
	"github.com/collabstay/collabstay-api/databases"
	"github.com/collabstay/collabstay-api/models"
)

// Trip exported for testing purposes
type Trip struct {
	DB  databases.TripDatabase
	IDB databases.InvitationDatabase
}

// PaginatedTripsResponse holds the structure for the paginated trips feed
type PaginatedTripsResponse struct {
	Page       int                   `json:"page"`
	TotalCount int64                 `json:"totalCount"`
	Data       []models.TripResponse `json:"data"`
}

// CreateTripHandler creates a new creator-posted trip listing
func (t Trip) CreateTripHandler(w http.ResponseWriter, r *http.Request) {
	var newTrip models.Trip
	if err := json.NewDecoder(r.Body).Decode(&newTrip); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if newTrip.Details.Destination == "" {
		config.ErrorStatus("destination is required", http.StatusBadRequest, w, nil)
		return
	}

	newTrip.ID = primitive.NewObjectID()
	newTrip.Details.Status = models.TripStatusOpen
	if newTrip.Details.PartySize <= 0 {
		newTrip.Details.PartySize = 1
	}
	newTrip.Details.Purpose = sanitizer.Sanitize(newTrip.Details.Purpose)
	newTrip.Details.Needs = sanitizer.Sanitize(newTrip.Details.Needs)
	now := primitive.NewDateTimeFromTime(time.Now())
	newTrip.Details.CreatedAt = now
	newTrip.Details.UpdatedAt = now

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := t.DB.InsertOne(ctx, newTrip); err != nil {
		config.ErrorStatus("failed to create new trip", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "trip created successfully",
		"id":      newTrip.ID.Hex(),
	})
}

// TripByIDHandler returns a trip decorated with its live offer count
func (t Trip) TripByIDHandler(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["trip_id"]

	tID, err := primitive.ObjectIDFromHex(tripID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	trip, err := t.DB.FindOne(r.Context(), bson.M{"_id": tID})
	if err != nil {
		config.ErrorStatus("failed to get trip by ID", http.StatusNotFound, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	offers, err := t.IDB.CountDocuments(ctx, offerFilter(tripID))
	if err != nil {
		config.ErrorStatus("failed to count offers", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.TripResponse{Trip: *trip, Offers: offers})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TripsHandler returns the paginated trips feed, newest first
func (t Trip) TripsHandler(w http.ResponseWriter, r *http.Request) {
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf("limit not set, using default of %v, err: %v", 10, err)
		Limit = 10
	}
	Page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		Page = 1
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["trip.status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	totalCount, err := t.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of trips", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := t.DB.FindPaginated(ctx, filter, Limit, Page)
	if err != nil {
		config.ErrorStatus("failed to get trips", http.StatusNotFound, w, err)
		return
	}

	data := make([]models.TripResponse, 0, len(dbResp))
	for _, trip := range dbResp {
		offers, err := t.IDB.CountDocuments(ctx, offerFilter(trip.ID.Hex()))
		if err != nil {
			config.ErrorStatus("failed to count offers", http.StatusInternalServerError, w, err)
			return
		}
		data = append(data, models.TripResponse{Trip: trip, Offers: offers})
	}

	respB, err := json.Marshal(PaginatedTripsResponse{
		Page:       Page,
		TotalCount: totalCount,
		Data:       data,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(respB)
}

// UpdateTripHandler lets the owning creator mark a trip matched. Matched trips
// do not reopen.
func (t Trip) UpdateTripHandler(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["trip_id"]

	tID, err := primitive.ObjectIDFromHex(tripID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body models.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Status != models.TripStatusMatched {
		config.ErrorStatus("trips only transition to matched", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	update := bson.M{"$set": bson.M{
		"trip.status":    models.TripStatusMatched,
		"trip.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	if err := t.DB.UpdateOne(ctx, bson.M{"_id": tID}, update); err != nil {
		config.ErrorStatus("failed to update trip", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "trip updated successfully"}`))
}

// offerFilter matches invitations referencing the given trip
func offerFilter(tripID string) bson.M {
	return bson.M{
		"invitation.listingRef.listingID":   tripID,
		"invitation.listingRef.listingType": models.ListingTypeTrip,
	}
}
