package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/collabstay/collabstay-api/api/handlers"
	"github.com/collabstay/collabstay-api/databases"
	mocksdb "github.com/collabstay/collabstay-api/databases/mocks"
	"github.com/collabstay/collabstay-api/models"
)

func projectHandlerWithMocks() (handlers.Project, *mocksdb.DatabaseHelper) {
	db := &mocksdb.DatabaseHelper{}
	p := handlers.Project{
		DB:  databases.NewProjectDatabase(db),
		IDB: databases.NewInvitationDatabase(db),
	}
	return p, db
}

func TestProject_CreateProjectHandlerMissingTitle(t *testing.T) {
	body := []byte(`{"project": {"location": "Hengchun"}}`)
	req, err := http.NewRequest("POST", "/api/v1/project", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	p, _ := projectHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.CreateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "title is required, <nil>"}`, rr.Body.String())
}

func TestProject_CreateProjectHandlerMissingLocation(t *testing.T) {
	body := []byte(`{"project": {"title": "Seaview Room Trial"}}`)
	req, err := http.NewRequest("POST", "/api/v1/project", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	p, _ := projectHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.CreateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "location is required, <nil>"}`, rr.Body.String())
}

func TestProject_CreateProjectHandlerDefaults(t *testing.T) {
	body := []byte(`{"project": {"title": "Seaview Room Trial", "location": "Hengchun"}}`)
	req, err := http.NewRequest("POST", "/api/v1/project", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var conn databases.CollectionHelper
	var insertResult databases.InsertOneResultHelper

	p, db := projectHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}
	insertResult = &mocksdb.InsertOneResultHelper{}

	var inserted models.Project
	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Project)
	})
	db.On("Collection", "projects").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.CreateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, models.ProjectStatusRecruiting, inserted.Details.Status)
	assert.Equal(t, 1, inserted.Details.Spots)
	assert.Equal(t, models.DefaultTotalValue, inserted.Details.TotalValue)
}

func TestProject_CreateProjectHandlerKeepsFieldsAndSanitizes(t *testing.T) {
	body := []byte(`{"project": {
		"title": "Seaview Room Trial",
		"location": "Hengchun",
		"category": "hospitality",
		"collaborationType": "stay-for-content",
		"spots": 3,
		"totalValue": "2 nights + meals",
		"valueBreakdown": "<b>2 nights</b> ocean view",
		"contentRequirements": "<script>x</script>3 reels, 1 post"
	}}`)
	req, err := http.NewRequest("POST", "/api/v1/project", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var conn databases.CollectionHelper
	var insertResult databases.InsertOneResultHelper

	p, db := projectHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}
	insertResult = &mocksdb.InsertOneResultHelper{}

	var inserted models.Project
	conn.(*mocksdb.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Project)
	})
	db.On("Collection", "projects").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.CreateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Seaview Room Trial", inserted.Details.Title)
	assert.Equal(t, "Hengchun", inserted.Details.Location)
	assert.Equal(t, 3, inserted.Details.Spots)
	assert.Equal(t, "2 nights + meals", inserted.Details.TotalValue)
	assert.Equal(t, "2 nights ocean view", inserted.Details.ValueBreakdown)
	assert.Equal(t, "3 reels, 1 post", inserted.Details.ContentRequirements)
}

func TestProject_ProjectByIDHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/project/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"project_id": "1234"})
	req.Header.Set("Authorization", "Bearer abc123")

	p, _ := projectHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.ProjectByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`, rr.Body.String())
}

func TestProject_ProjectByIDHandlerCountsApplicants(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/project/64b64c91f2a1b2c3d4e5f610", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"project_id": "64b64c91f2a1b2c3d4e5f610"})
	req.Header.Set("Authorization", "Bearer abc123")

	var projConn databases.CollectionHelper
	var invConn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	p, db := projectHandlerWithMocks()
	projConn = &mocksdb.CollectionHelper{}
	invConn = &mocksdb.CollectionHelper{}
	singleResultHelper = &mocksdb.SingleResultHelper{}

	singleResultHelper.(*mocksdb.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Project)
		(*arg).Details.Title = "Seaview Room Trial"
		(*arg).Details.Status = models.ProjectStatusRecruiting
	})
	projConn.(*mocksdb.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	invConn.(*mocksdb.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(4), nil)

	db.On("Collection", "projects").Return(projConn)
	db.On("Collection", "invitations").Return(invConn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.ProjectByIDHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"applicants":4`)
	assert.Contains(t, rr.Body.String(), "Seaview Room Trial")
}

func TestProject_ProjectsHandlerPaginated(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/projects?limit=10&page=1&status=recruiting", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	var projConn databases.CollectionHelper
	var invConn databases.CollectionHelper
	var cursorHelper databases.CursorHelper

	p, db := projectHandlerWithMocks()
	projConn = &mocksdb.CollectionHelper{}
	invConn = &mocksdb.CollectionHelper{}
	cursorHelper = &mocksdb.CursorHelper{}

	var capturedFilter bson.M
	projConn.(*mocksdb.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(2), nil).Run(func(args mock.Arguments) {
		capturedFilter = args.Get(1).(bson.M)
	})
	projConn.(*mocksdb.CollectionHelper).On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursorHelper, nil)
	cursorHelper.(*mocksdb.CursorHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Project)
		*arg = []models.Project{
			{ID: primitive.NewObjectID(), Details: models.ProjectDetails{Title: "Seaview Room Trial"}},
			{ID: primitive.NewObjectID(), Details: models.ProjectDetails{Title: "Harvest Retreat"}},
		}
	})
	invConn.(*mocksdb.CollectionHelper).On("CountDocuments", mock.Anything, mock.Anything).Return(int64(1), nil)

	db.On("Collection", "projects").Return(projConn)
	db.On("Collection", "invitations").Return(invConn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.ProjectsHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "recruiting", capturedFilter["project.status"])

	var resp handlers.PaginatedProjectsResponse
	err = json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, int64(2), resp.TotalCount)
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(1), resp.Data[0].Applicants)
}

func TestProject_UpdateProjectHandlerUnknownField(t *testing.T) {
	body := []byte(`{"title": "new title"}`)
	req, err := http.NewRequest("PATCH", "/api/v1/project/64b64c91f2a1b2c3d4e5f610", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"project_id": "64b64c91f2a1b2c3d4e5f610"})
	req.Header.Set("Authorization", "Bearer abc123")

	p, _ := projectHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.UpdateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "only status and spots may be updated, <nil>"}`, rr.Body.String())
}

func TestProject_UpdateProjectHandlerInvalidStatus(t *testing.T) {
	body := []byte(`{"status": "archived"}`)
	req, err := http.NewRequest("PATCH", "/api/v1/project/64b64c91f2a1b2c3d4e5f610", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"project_id": "64b64c91f2a1b2c3d4e5f610"})
	req.Header.Set("Authorization", "Bearer abc123")

	p, _ := projectHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.UpdateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "invalid project status, <nil>"}`, rr.Body.String())
}

func TestProject_UpdateProjectHandlerClose(t *testing.T) {
	body := []byte(`{"status": "closed", "spots": 2}`)
	req, err := http.NewRequest("PATCH", "/api/v1/project/64b64c91f2a1b2c3d4e5f610", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"project_id": "64b64c91f2a1b2c3d4e5f610"})
	req.Header.Set("Authorization", "Bearer abc123")

	var conn databases.CollectionHelper

	p, db := projectHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}

	var capturedUpdate bson.M
	conn.(*mocksdb.CollectionHelper).On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Run(func(args mock.Arguments) {
		capturedUpdate = args.Get(2).(bson.M)
	})
	db.On("Collection", "projects").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.UpdateProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "project updated successfully")

	set := capturedUpdate["$set"].(bson.M)
	assert.Equal(t, models.ProjectStatusClosed, set["project.status"])
	assert.Equal(t, 2, set["project.spots"])
	assert.NotNil(t, set["project.updatedAt"])
}
