package handlers

import (
	"encoding/json"
	"net/http"
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

// Invitation exported for testing purposes
type Invitation struct {
	DB  databases.InvitationDatabase
	TDB databases.TripDatabase
	UDB databases.UserDatabase

	// AllowDuplicates permits a second proposal between the same parties for
	// the same listing, e.g. re-applying after a decline
	AllowDuplicates bool
}

// CreateInvitationHandler creates an invite (business-initiated) or an
// application (creator-initiated). The new invitation always starts pending.
// No existence check is made against the recipient account; the recipient is
// resolved through the views by identity.
func (i Invitation) CreateInvitationHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if req.Kind != models.InvitationKindInvite && req.Kind != models.InvitationKindApplication {
		config.ErrorStatus("kind must be invite or application", http.StatusBadRequest, w, nil)
		return
	}
	if req.ToUserID == "" && req.ToIdentity == "" {
		config.ErrorStatus("recipient is required", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if !i.AllowDuplicates && req.ListingRef != nil {
		count, err := i.DB.CountDocuments(ctx, bson.M{
			"invitation.fromUserID":           req.FromUserID,
			"invitation.toUserID":             req.ToUserID,
			"invitation.listingRef.listingID": req.ListingRef.ListingID,
		})
		if err != nil {
			config.ErrorStatus("failed to check for duplicate invitation", http.StatusInternalServerError, w, err)
			return
		}
		if count > 0 {
			config.ErrorStatus("an invitation between these parties for this listing already exists", http.StatusConflict, w, nil)
			return
		}
	}

	// applications carry a media kit snapshot for business review; default it
	// from the applicant's live profile when the client omits one
	mediaKit := req.MediaKit
	if mediaKit == nil && req.Kind == models.InvitationKindApplication && req.FromUserID != "" {
		if fromID, err := primitive.ObjectIDFromHex(req.FromUserID); err == nil {
			sender, err := i.UDB.FindOne(ctx, bson.M{"_id": fromID})
			if err != nil {
				zap.S().Warnw("failed to snapshot applicant media kit",
					"fromUserID", req.FromUserID,
					"error", err)
			} else {
				mediaKit = sender.Details.MediaKit
			}
		}
	}

	newInvitation := models.Invitation{
		ID: primitive.NewObjectID(),
		Details: models.InvitationDetails{
			Kind:         req.Kind,
			FromUserID:   req.FromUserID,
			ToUserID:     req.ToUserID,
			FromIdentity: req.FromIdentity,
			ToIdentity:   req.ToIdentity,
			Message:      sanitizer.Sanitize(req.Message),
			Status:       models.InvitationStatusPending,
			ListingRef:   req.ListingRef,
			MediaKit:     mediaKit,
			CreatedAt:    primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	if _, err := i.DB.InsertOne(ctx, newInvitation); err != nil {
		config.ErrorStatus("failed to create new invitation", http.StatusInternalServerError, w, err)
		return
	}

	NotifyUser(newInvitation.Details.ToUserID, "invitation_received", map[string]interface{}{
		"invitationID": newInvitation.ID.Hex(),
		"kind":         newInvitation.Details.Kind,
		"fromIdentity": newInvitation.Details.FromIdentity,
	})

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "invitation created successfully",
		"id":      newInvitation.ID.Hex(),
	})
}

// InvitationByIDHandler returns an invitation by its ID
func (i Invitation) InvitationByIDHandler(w http.ResponseWriter, r *http.Request) {
	invitationID := mux.Vars(r)["invitation_id"]

	iID, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	invitation, err := i.DB.FindOne(r.Context(), bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("failed to get invitation by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(invitation)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// TransitionStatusHandler moves an invitation between lifecycle states. The
// write is an unconditional field set; callers see the new state on their
// next read rather than through an optimistic local update.
func (i Invitation) TransitionStatusHandler(w http.ResponseWriter, r *http.Request) {
	invitationID := mux.Vars(r)["invitation_id"]

	iID, err := primitive.ObjectIDFromHex(invitationID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var body models.TransitionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if !models.ValidInvitationStatus(body.Status) {
		config.ErrorStatus("status must be pending, accepted or declined", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	set := bson.M{"invitation.status": body.Status}
	if body.Status == models.InvitationStatusPending {
		set["invitation.respondedAt"] = nil
	} else {
		set["invitation.respondedAt"] = primitive.NewDateTimeFromTime(time.Now())
	}
	if err := i.DB.UpdateOne(ctx, bson.M{"_id": iID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update invitation status", http.StatusInternalServerError, w, err)
		return
	}

	invitation, err := i.DB.FindOne(ctx, bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("failed to get invitation by ID", http.StatusNotFound, w, err)
		return
	}

	// accepting an offer on a trip also marks the trip matched. The two
	// writes are not atomic; a failure here leaves the trip open and is
	// surfaced in the logs only.
	if body.Status == models.InvitationStatusAccepted &&
		invitation.Details.ListingRef != nil &&
		invitation.Details.ListingRef.ListingType == models.ListingTypeTrip {
		if tID, err := primitive.ObjectIDFromHex(invitation.Details.ListingRef.ListingID); err == nil {
			update := bson.M{"$set": bson.M{
				"trip.status":    models.TripStatusMatched,
				"trip.updatedAt": primitive.NewDateTimeFromTime(time.Now()),
			}}
			if err := i.TDB.UpdateOne(ctx, bson.M{"_id": tID}, update); err != nil {
				zap.S().Errorw("failed to mark trip matched after acceptance",
					"tripID", invitation.Details.ListingRef.ListingID,
					"invitationID", invitationID,
					"error", err)
			}
		}
	}

	NotifyUser(invitation.Details.FromUserID, "invitation_status_changed", map[string]interface{}{
		"invitationID": invitationID,
		"status":       body.Status,
	})

	b, err := json.Marshal(invitation)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
