package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaguthu/election-console/internal/middleware"
	"github.com/vaguthu/election-console/internal/models"
	"github.com/vaguthu/election-console/internal/service"
	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeVoterSrv struct {
	voters     []models.Voter
	voter      *models.Voter
	err        error
	lastFilter models.VoterFilter
	lastRole   models.UserRole
	lastVoted  *bool
}

func (f *fakeVoterSrv) List(_ context.Context, filter models.VoterFilter) ([]models.Voter, error) {
	f.lastFilter = filter
	return f.voters, f.err
}

func (f *fakeVoterSrv) Get(_ context.Context, _ string) (*models.Voter, error) {
	return f.voter, f.err
}

func (f *fakeVoterSrv) Create(_ context.Context, _ service.CreateVoterRequest, role models.UserRole) (*models.Voter, error) {
	f.lastRole = role
	return f.voter, f.err
}

func (f *fakeVoterSrv) UpdateDetails(_ context.Context, _ string, _ service.UpdateVoterRequest, role models.UserRole) (*models.Voter, error) {
	f.lastRole = role
	return f.voter, f.err
}

func (f *fakeVoterSrv) SetVoteStatus(_ context.Context, _ string, hasVoted bool, role models.UserRole) (*models.Voter, error) {
	f.lastRole = role
	f.lastVoted = &hasVoted
	return f.voter, f.err
}

func (f *fakeVoterSrv) Delete(_ context.Context, _ string, role models.UserRole) error {
	f.lastRole = role
	return f.err
}

func testContext(t *testing.T, method, target string, body interface{}, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, rec
}

func TestVoterHandlerListParsesFilter(t *testing.T) {
	srv := &fakeVoterSrv{voters: []models.Voter{{ID: "v1"}}}
	handler := NewVoterHandler(srv)

	c, rec := testContext(t, http.MethodGet, "/voters?search=ali&island=Thoddoo&voted=true", nil, nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ali", srv.lastFilter.Search)
	assert.Equal(t, "Thoddoo", srv.lastFilter.Island)
	require.NotNil(t, srv.lastFilter.HasVoted)
	assert.True(t, *srv.lastFilter.HasVoted)
	assert.Nil(t, srv.lastFilter.Sheema)
}

func TestVoterHandlerCreatePassesRole(t *testing.T) {
	srv := &fakeVoterSrv{voter: &models.Voter{ID: "v1"}}
	handler := NewVoterHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/voters", service.CreateVoterRequest{IDCard: "A123"},
		&models.JWTClaims{UserID: "u1", Role: models.RoleAdmin})
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, models.RoleAdmin, srv.lastRole)
}

func TestVoterHandlerCreateRendersFieldErrors(t *testing.T) {
	srv := &fakeVoterSrv{err: service.FieldErrors{"id_card": service.CodeInvalidIDCard, "address": service.CodeMissingAddress}}
	handler := NewVoterHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/voters", service.CreateVoterRequest{},
		&models.JWTClaims{UserID: "u1", Role: models.RoleAdmin})
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)

	fields, ok := envelope.Meta["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, service.CodeInvalidIDCard, fields["id_card"])
	assert.Equal(t, service.CodeMissingAddress, fields["address"])
}

func TestVoterHandlerCreateForbidden(t *testing.T) {
	srv := &fakeVoterSrv{err: appErrors.ErrForbidden}
	handler := NewVoterHandler(srv)

	c, rec := testContext(t, http.MethodPost, "/voters", service.CreateVoterRequest{IDCard: "A123"},
		&models.JWTClaims{UserID: "u1", Role: models.RoleMamdhoob})
	handler.Create(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVoterHandlerSetVoteStatus(t *testing.T) {
	srv := &fakeVoterSrv{voter: &models.Voter{ID: "v1", HasVoted: true}}
	handler := NewVoterHandler(srv)

	c, rec := testContext(t, http.MethodPatch, "/voters/v1/vote", map[string]bool{"has_voted": true},
		&models.JWTClaims{UserID: "u1", Role: models.RoleMamdhoob})
	c.Params = gin.Params{{Key: "id", Value: "v1"}}
	handler.SetVoteStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastVoted)
	assert.True(t, *srv.lastVoted)
	assert.Equal(t, models.RoleMamdhoob, srv.lastRole)
}

func TestVoterHandlerCreateMalformedJSON(t *testing.T) {
	handler := NewVoterHandler(&fakeVoterSrv{})

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/voters", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
