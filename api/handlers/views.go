package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/collabstay/collabstay-api/api"
	"github.com/collabstay/collabstay-api/config"
	"github.com/collabstay/collabstay-api/databases"
	"github.com/collabstay/collabstay-api/models"
)

// Views composes the per-role matching projections over the invitation
// ledger. Views only read; an empty result is an empty list, not an error.
type Views struct {
	IDB databases.InvitationDatabase
	UDB databases.UserDatabase
}

// newestFirst orders view results deterministically by the time-derived id
var newestFirst = options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})

// InvitationsByIdentityHandler returns the sent or received invitations for
// an identity. The identity matches the stable user id when the caller has
// one, and falls back to exact string equality on display name or handle.
func (v Views) InvitationsByIdentityHandler(w http.ResponseWriter, r *http.Request) {
	identity := r.URL.Query().Get("identity")
	direction := r.URL.Query().Get("direction")
	if identity == "" {
		config.ErrorStatus("identity is required", http.StatusBadRequest, w, nil)
		return
	}
	if direction != "sent" && direction != "received" {
		config.ErrorStatus("direction must be sent or received", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	idField := "invitation.toUserID"
	displayField := "invitation.toIdentity"
	if direction == "sent" {
		idField = "invitation.fromUserID"
		displayField = "invitation.fromIdentity"
	}

	ors := []bson.M{
		{idField: identity},
		{displayField: identity},
	}
	// legacy documents carry display strings only; when the identity is a
	// stable id, widen the match to the account's current name and handle
	if uID, err := primitive.ObjectIDFromHex(identity); err == nil {
		if user, err := v.UDB.FindOne(ctx, bson.M{"_id": uID}); err == nil {
			if user.Details.Name != "" {
				ors = append(ors, bson.M{displayField: user.Details.Name})
			}
			if user.Details.MediaKit != nil && user.Details.MediaKit.Handle != "" {
				ors = append(ors, bson.M{displayField: user.Details.MediaKit.Handle})
			}
		} else {
			zap.S().Debugw("identity did not resolve to an account, matching display strings only",
				"identity", identity)
		}
	}

	dbResp, err := v.IDB.Find(ctx, bson.M{"$or": ors}, newestFirst)
	if err != nil {
		config.ErrorStatus("failed to get invitations", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Invitation{}
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ApplicantsByProjectHandler returns the applications addressed to a project,
// newest first, each decorated with the creator profile for business review
func (v Views) ApplicantsByProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["project_id"]

	if _, err := primitive.ObjectIDFromHex(projectID); err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := v.IDB.Find(ctx, applicantFilter(projectID), newestFirst)
	if err != nil {
		config.ErrorStatus("failed to get applicants", http.StatusNotFound, w, err)
		return
	}

	applicants := make([]models.ApplicantResponse, 0, len(dbResp))
	for _, invitation := range dbResp {
		applicants = append(applicants, models.ApplicantResponse{
			Invitation: invitation,
			Applicant:  v.applicantProfile(r, invitation),
		})
	}

	b, err := json.Marshal(applicants)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// applicantProfile resolves the live creator profile when the application has
// no embedded media kit snapshot to fall back on
func (v Views) applicantProfile(r *http.Request, invitation models.Invitation) *models.UserDetails {
	if invitation.Details.MediaKit != nil {
		return nil
	}
	fromID, err := primitive.ObjectIDFromHex(invitation.Details.FromUserID)
	if err != nil {
		return nil
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := v.UDB.FindOne(ctx, bson.M{"_id": fromID})
	if err != nil {
		zap.S().Warnw("failed to resolve live applicant profile",
			"fromUserID", invitation.Details.FromUserID,
			"error", err)
		return nil
	}
	user.Details.Password = ""
	return &user.Details
}
