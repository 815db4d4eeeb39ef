package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/collabstay/collabstay-api/api/handlers"
	"github.com/collabstay/collabstay-api/databases"
	mocksdb "github.com/collabstay/collabstay-api/databases/mocks"
	"github.com/collabstay/collabstay-api/models"
)

func tripHandlerWithMocks() (handlers.Trip, *mocksdb.DatabaseHelper) {
	db := &mocksdb.DatabaseHelper{}
	tr := handlers.Trip{
		DB:  databases.NewTripDatabase(db),
		IDB: databases.NewInvitationDatabase(db),
	}
	return tr, db
}

func TestTrip_CreateTripHandlerMissingDestination(t *testing.T) {
	body := []byte(`{"trip": {"purpose": "content trip"}}`)
	req, err := http.NewRequest("POST", "/api/v1/trip", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	tr, _ := tripHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(tr.CreateTripHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "destination is required, <nil>"}`, rr.Body.String())
}

func TestTrip_CreateTripHandlerStartsOpen(t *testing.T) {
	body := []byte(`{"trip": {
		"destination": "Hengchun",
		"startDate": "2026-03-02",
		"endDate": "2026-03-09",
		"partySize": 2,
		"purpose": "slow-travel vlog series"
	}}`)
	req, err := http.NewRequest("POST", "/api/v1/trip", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var conn databases.CollectionHelper
	var insertResult databases.InsertOneResultHelper

	tr, db := tripHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}
	insertResult = &mocksdb.InsertOneResultHelper{}

	var inserted models.Trip
	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Trip)
	})
	db.On("Collection", "trips").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(tr.CreateTripHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "trip created successfully")
	assert.Equal(t, models.TripStatusOpen, inserted.Details.Status)
	assert.Equal(t, "Hengchun", inserted.Details.Destination)
	assert.Equal(t, 2, inserted.Details.PartySize)
}

func TestTrip_TripByIDHandlerCountsOffers(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/trip/64b64c91f2a1b2c3d4e5f620", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"trip_id": "64b64c91f2a1b2c3d4e5f620"})
	req.Header.Set("Authorization", "Bearer abc123")

	var tripConn databases.CollectionHelper
	var invConn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	tr, db := tripHandlerWithMocks()
	tripConn = &mocksdb.CollectionHelper{}
	invConn = &mocksdb.CollectionHelper{}
	singleResultHelper = &mocksdb.SingleResultHelper{}

	singleResultHelper.(*mocksdb.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Trip)
		(*arg).Details.Destination = "Hengchun"
		(*arg).Details.Status = models.TripStatusOpen
	})
	tripConn.(*mocksdb.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)

	var capturedFilter bson.M
	invConn.(*mocksdb.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(3), nil).Run(func(args mock.Arguments) {
		capturedFilter = args.Get(1).(bson.M)
	})

	db.On("Collection", "trips").Return(tripConn)
	db.On("Collection", "invitations").Return(invConn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(tr.TripByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"offers":3`)
	assert.Equal(t, "64b64c91f2a1b2c3d4e5f620", capturedFilter["invitation.listingRef.listingID"])
	assert.Equal(t, models.ListingTypeTrip, capturedFilter["invitation.listingRef.listingType"])
}

func TestTrip_UpdateTripHandlerRejectsReopen(t *testing.T) {
	body := []byte(`{"status": "open"}`)
	req, err := http.NewRequest("PATCH", "/api/v1/trip/64b64c91f2a1b2c3d4e5f620", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"trip_id": "64b64c91f2a1b2c3d4e5f620"})
	req.Header.Set("Authorization", "Bearer abc123")

	tr, _ := tripHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(tr.UpdateTripHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "trips only transition to matched, <nil>"}`, rr.Body.String())
}

func TestTrip_UpdateTripHandlerMatched(t *testing.T) {
	body := []byte(`{"status": "matched"}`)
	req, err := http.NewRequest("PATCH", "/api/v1/trip/64b64c91f2a1b2c3d4e5f620", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"trip_id": "64b64c91f2a1b2c3d4e5f620"})
	req.Header.Set("Authorization", "Bearer abc123")

	var conn databases.CollectionHelper

	tr, db := tripHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}

	var capturedUpdate bson.M
	conn.(*mocksdb.CollectionHelper).On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Run(func(args mock.Arguments) {
		capturedUpdate = args.Get(2).(bson.M)
	})
	db.On("Collection", "trips").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(tr.UpdateTripHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "trip updated successfully")

	set := capturedUpdate["$set"].(bson.M)
	assert.Equal(t, models.TripStatusMatched, set["trip.status"])
	assert.NotNil(t, set["trip.updatedAt"])
}
