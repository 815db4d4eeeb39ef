package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/collabstay/collabstay-api/api"
	"github.com/collabstay/collabstay-api/config"
	"github.com/collabstay/collabstay-api/databases"
	"github.com/collabstay/collabstay-api/models"
)

// sanitizer strips markup from user-supplied free text before it is persisted
var sanitizer = bluemonday.StrictPolicy()

// Project exported for testing purposes
type Project struct {
	DB  databases.ProjectDatabase
	IDB databases.InvitationDatabase
}

// PaginatedProjectsResponse holds the structure for the paginated projects feed
type PaginatedProjectsResponse struct {
	Page       int                      `json:"page"`
	TotalCount int64                    `json:"totalCount"`
	Data       []models.ProjectResponse `json:"data"`
}

// CreateProjectHandler creates a new business listing
func (p Project) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var newProject models.Project
	if err := json.NewDecoder(r.Body).Decode(&newProject); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if newProject.Details.Title == "" {
		config.ErrorStatus("title is required", http.StatusBadRequest, w, nil)
		return
	}
	if newProject.Details.Location == "" {
		config.ErrorStatus("location is required", http.StatusBadRequest, w, nil)
		return
	}

	newProject.ID = primitive.NewObjectID()
	newProject.Details.Status = models.ProjectStatusRecruiting
	if newProject.Details.Spots <= 0 {
		newProject.Details.Spots = 1
	}
	if newProject.Details.TotalValue == "" {
		newProject.Details.TotalValue = models.DefaultTotalValue
	}
	newProject.Details.ValueBreakdown = sanitizer.Sanitize(newProject.Details.ValueBreakdown)
	newProject.Details.ContentRequirements = sanitizer.Sanitize(newProject.Details.ContentRequirements)
	now := primitive.NewDateTimeFromTime(time.Now())
	newProject.Details.CreatedAt = now
	newProject.Details.UpdatedAt = now

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := p.DB.InsertOne(ctx, newProject); err != nil {
		config.ErrorStatus("failed to create new project", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "project created successfully",
		"id":      newProject.ID.Hex(),
	})
}

// ProjectByIDHandler returns a project decorated with its live applicant count
func (p Project) ProjectByIDHandler(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["project_id"]

	pID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	project, err := p.DB.FindOne(r.Context(), bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to get project by ID", http.StatusNotFound, w, err)
		return
	}

	applicants, err := p.applicantCount(r, projectID)
	if err != nil {
		config.ErrorStatus("failed to count applicants", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.ProjectResponse{Project: *project, Applicants: applicants})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ProjectsHandler returns the paginated project feed, newest first
func (p Project) ProjectsHandler(w http.ResponseWriter, r *http.Request) {
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
	if category := r.URL.Query().Get("category"); category != "" {
		filter["project.category"] = category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["project.status"] = status
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	totalCount, err := p.DB.CountDocuments(ctx, filter)
	if err != nil {
		config.ErrorStatus("failed to get total count of projects", http.StatusInternalServerError, w, err)
		return
	}

	dbResp, err := p.DB.FindPaginated(ctx, filter, Limit, Page)
	if err != nil {
		config.ErrorStatus("failed to get projects", http.StatusNotFound, w, err)
		return
	}

	data := make([]models.ProjectResponse, 0, len(dbResp))
	for _, project := range dbResp {
		applicants, err := p.IDB.CountDocuments(ctx, applicantFilter(project.ID.Hex()))
		if err != nil {
			config.ErrorStatus("failed to count applicants", http.StatusInternalServerError, w, err)
			return
		}
		data = append(data, models.ProjectResponse{Project: project, Applicants: applicants})
	}

	respB, err := json.Marshal(PaginatedProjectsResponse{
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

// UpdateProjectHandler lets the owning business close a listing or adjust spots
func (p Project) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["project_id"]

	pID, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updatedDetails map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updatedDetails); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	update := bson.M{}
	for key, value := range updatedDetails {
		switch key {
		case "status":
			status, ok := value.(string)
			if !ok || (status != models.ProjectStatusRecruiting && status != models.ProjectStatusClosed) {
				config.ErrorStatus("invalid project status", http.StatusBadRequest, w, nil)
				return
			}
			update["project.status"] = status
		case "spots":
			spots, ok := value.(float64)
			if !ok || spots < 0 {
				config.ErrorStatus("spots must be a non-negative number", http.StatusBadRequest, w, nil)
				return
			}
			update["project.spots"] = int(spots)
		default:
			config.ErrorStatus("only status and spots may be updated", http.StatusBadRequest, w, nil)
			return
		}
	}

	update["project.updatedAt"] = primitive.NewDateTimeFromTime(time.Now())

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := p.DB.UpdateOne(ctx, bson.M{"_id": pID}, bson.M{"$set": update}); err != nil {
		config.ErrorStatus("failed to update project", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "project updated successfully"}`))
}

func (p Project) applicantCount(r *http.Request, projectID string) (int64, error) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	return p.IDB.CountDocuments(ctx, applicantFilter(projectID))
}

// applicantFilter matches applications addressed to the given project
func applicantFilter(projectID string) bson.M {
	return bson.M{
		"invitation.kind":                 models.InvitationKindApplication,
		"invitation.listingRef.listingID": projectID,
	}
}
