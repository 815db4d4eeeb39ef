package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/collabstay/collabstay-api/api/handlers"
	"github.com/collabstay/collabstay-api/databases"
	mocksdb "github.com/collabstay/collabstay-api/databases/mocks"
	"github.com/collabstay/collabstay-api/models"
)

func adminHandlerWithMocks() (handlers.Admin, *mocksdb.DatabaseHelper) {
	db := &mocksdb.DatabaseHelper{}
	a := handlers.Admin{
		DB:  databases.NewAdminDatabase(db),
		IDB: databases.NewInvitationDatabase(db),
		PDB: databases.NewProjectDatabase(db),
	}
	return a, db
}

func TestAdmin_LoginHandlerWrongPassword(t *testing.T) {
	body := []byte(`{"email": "mod@collabstay.com", "password": "wrong"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	a, db := adminHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}
	singleResultHelper = &mocksdb.SingleResultHelper{}

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	singleResultHelper.(*mocksdb.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.AdminUser)
		(*arg).Email = "mod@collabstay.com"
		(*arg).PasswordHash = string(hash)
		(*arg).Active = true
	})
	conn.(*mocksdb.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.On("Collection", "admins").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.LoginHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"response": "invalid credentials, <nil>"}`, rr.Body.String())
}

func TestAdmin_LoginHandlerIssuesToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	body := []byte(`{"email": "mod@collabstay.com", "password": "right"}`)
	req, err := http.NewRequest("POST", "/api/v1/admin/login", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}

	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	a, db := adminHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}
	singleResultHelper = &mocksdb.SingleResultHelper{}

	hash, _ := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.DefaultCost)
	singleResultHelper.(*mocksdb.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.AdminUser)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Email = "mod@collabstay.com"
		(*arg).PasswordHash = string(hash)
		(*arg).Active = true
		(*arg).Roles = []string{"moderator"}
	})
	var capturedFilter bson.M
	conn.(*mocksdb.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper).Run(func(args mock.Arguments) {
		capturedFilter = args.Get(1).(bson.M)
	})
	db.On("Collection", "admins").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.LoginHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "token")
	assert.Contains(t, rr.Body.String(), "mod@collabstay.com")

	// only active accounts can log in
	assert.Equal(t, true, capturedFilter["active"])
}

func TestAdmin_JWTMiddlewareNoToken(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/admin/invitation/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := adminHandlerWithMocks()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be reached")
	})

	rr := httptest.NewRecorder()
	a.JWTMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error": "unauthorized"}`, rr.Body.String())
}

func TestAdmin_JWTMiddlewareBadToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	req, err := http.NewRequest("DELETE", "/api/v1/admin/invitation/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	a, _ := adminHandlerWithMocks()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be reached")
	})

	rr := httptest.NewRecorder()
	a.JWTMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdmin_JWTMiddlewareWrongScope(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "someone",
		"scope": "user",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("DELETE", "/api/v1/admin/invitation/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+signed)

	a, _ := adminHandlerWithMocks()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be reached")
	})

	rr := httptest.NewRecorder()
	a.JWTMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, `{"error": "forbidden"}`, rr.Body.String())
}

func TestAdmin_JWTMiddlewareValidToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "someone",
		"scope": "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	req, err := http.NewRequest("DELETE", "/api/v1/admin/invitation/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+signed)

	a, _ := adminHandlerWithMocks()
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	a.JWTMiddleware(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reached)
}

func TestAdmin_DeleteInvitationHandlerBadID(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/admin/invitation/1234", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"invitation_id": "1234"})

	a, _ := adminHandlerWithMocks()

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.DeleteInvitationHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"response": "failed to get objectID from Hex, the provided hex string is not a valid ObjectID"}`, rr.Body.String())
}

func TestAdmin_DeleteInvitationHandler(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/admin/invitation/5fc51f58c72ff10004dca382", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"invitation_id": "5fc51f58c72ff10004dca382"})

	var conn databases.CollectionHelper

	a, db := adminHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}

	conn.(*mocksdb.CollectionHelper).On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	db.On("Collection", "invitations").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.DeleteInvitationHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "invitation deleted successfully")
}

func TestAdmin_OverrideProjectHandler(t *testing.T) {
	req, err := http.NewRequest("PATCH", "/api/v1/admin/project/64b64c91f2a1b2c3d4e5f610", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"project_id": "64b64c91f2a1b2c3d4e5f610"})

	var conn databases.CollectionHelper

	a, db := adminHandlerWithMocks()
	conn = &mocksdb.CollectionHelper{}

	var capturedUpdate bson.M
	conn.(*mocksdb.CollectionHelper).On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Run(func(args mock.Arguments) {
		capturedUpdate = args.Get(2).(bson.M)
	})
	db.On("Collection", "projects").Return(conn)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(a.OverrideProjectHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	set := capturedUpdate["$set"].(bson.M)
	assert.Equal(t, models.ProjectStatusClosed, set["project.status"])
}
