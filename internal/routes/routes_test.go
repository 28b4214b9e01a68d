package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/dto"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/handlers"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/memstore"
)

type apiClient struct {
	t      *testing.T
	router *mux.Router
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	st := memstore.New()
	now := time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)
	svc := services.New(services.Options{
		Store:    st,
		Now:      func() time.Time { return now },
		Location: time.UTC,
	})
	jwtCfg := &config.JWTConfig{Secret: "routes-test", AccessTokenTTL: time.Hour}
	router := SetupRoutes(Handlers{
		Auth:           handlers.NewAuthHandler(svc.Users, jwtCfg),
		Health:         handlers.NewHealthHandler(st),
		TravelRequests: handlers.NewTravelRequestHandler(svc, 5),
		Groups:         handlers.NewGroupHandler(svc),
		GroupRequests:  handlers.NewGroupRequestHandler(svc),
	}, jwtCfg)
	return &apiClient{t: t, router: router}
}

func (c *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (c *apiClient) register(name, username, regNo, gender string) dto.AuthResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email:              username + "@vitstudent.ac.in",
		RegistrationNumber: regNo,
		Name:               name,
		Username:           username,
		Phone:              "9876543210",
		Gender:             gender,
		Password:           "secret123",
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.AuthResponse](c.t, rec)
}

func (c *apiClient) createRequest(token string) dto.TravelRequestResponse {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/travel-requests", token, dto.CreateTravelRequestRequest{
		Route:            "vit-to-katpadi",
		Date:             "2024-01-10",
		Time:             "09:00",
		VehicleType:      "auto",
		GroupSize:        3,
		GenderPreference: "mixed",
	})
	require.Equal(c.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[dto.TravelRequestResponse](c.t, rec)
}

func TestHealthRoutes(t *testing.T) {
	api := newAPI(t)
	for _, path := range []string{"/healthz", "/livez", "/readyz"} {
		rec := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
	ready := decode[dto.HealthResponse](t, api.do(http.MethodGet, "/readyz", "", nil))
	assert.Equal(t, "ready", ready.Status)
}

func TestAuthFlow(t *testing.T) {
	api := newAPI(t)
	asha := api.register("Asha", "asha", "21BCE1001", "female")
	assert.NotEmpty(t, asha.Token)
	assert.Equal(t, "21BCE1001", asha.User.RegistrationNumber)

	dup := api.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Email: "asha@vitstudent.ac.in", RegistrationNumber: "21BCE1999", Name: "Other",
		Username: "other", Phone: "9876543210", Gender: "female", Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	bad := api.do(http.MethodPost, "/api/auth/register", "", map[string]any{"email": "nope"})
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	login := api.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ASHA@vitstudent.ac.in", Password: "secret123"})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())
	token := decode[dto.AuthResponse](t, login).Token

	wrong := api.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "asha@vitstudent.ac.in", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)

	profile := api.do(http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, profile.Code)
	assert.Equal(t, "Asha", decode[dto.UserResponse](t, profile).Name)

	name := "Asha K"
	updated := api.do(http.MethodPatch, "/api/auth/profile", token, dto.UpdateProfileRequest{Name: &name})
	require.Equal(t, http.StatusOK, updated.Code, updated.Body.String())
	assert.Equal(t, "Asha K", decode[dto.UserResponse](t, updated).Name)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/profile", "", nil).Code)
}

func TestTravelRequestsAndMatches(t *testing.T) {
	api := newAPI(t)
	asha := api.register("Asha", "asha", "21BCE1001", "female")
	bala := api.register("Bala", "bala", "21BCE1002", "male")

	mine := api.createRequest(asha.Token)
	theirs := api.createRequest(bala.Token)
	assert.Equal(t, "active", mine.Status)

	past := api.do(http.MethodPost, "/api/travel-requests", asha.Token, dto.CreateTravelRequestRequest{
		Route: "vit-to-katpadi", Date: "2024-01-08", Time: "09:00",
		VehicleType: "auto", GroupSize: 3, GenderPreference: "mixed",
	})
	assert.Equal(t, http.StatusBadRequest, past.Code)

	browse := decode[[]dto.TravelRequestResponse](t, api.do(http.MethodGet, "/api/travel-requests/browse", asha.Token, nil))
	require.Len(t, browse, 1)
	assert.Equal(t, theirs.ID, browse[0].ID)
	assert.Equal(t, "Bala", browse[0].UserName)

	rec := api.do(http.MethodGet, "/api/travel-requests/"+mine.ID+"/matches", asha.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	matches := decode[dto.MatchesResponse](t, rec)
	require.Len(t, matches.Matches, 1)
	assert.Equal(t, theirs.ID, matches.Matches[0].Request.ID)
	assert.Equal(t, 135, matches.Matches[0].Score)

	assert.Equal(t, http.StatusForbidden,
		api.do(http.MethodGet, "/api/travel-requests/"+mine.ID+"/matches", bala.Token, nil).Code)
	assert.Equal(t, http.StatusBadRequest,
		api.do(http.MethodGet, "/api/travel-requests/"+mine.ID+"/matches?limit=0", asha.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound,
		api.do(http.MethodGet, "/api/travel-requests/missing/matches", asha.Token, nil).Code)
}

func TestHandshakeFormsGroup(t *testing.T) {
	api := newAPI(t)
	asha := api.register("Asha", "asha", "21BCE1001", "female")
	bala := api.register("Bala", "bala", "21BCE1002", "male")
	api.createRequest(asha.Token)
	api.createRequest(bala.Token)

	self := api.do(http.MethodPost, "/api/group-requests", asha.Token, dto.SendGroupRequestRequest{
		ToUserID: asha.User.ID, RequestType: "direct_request",
	})
	assert.Equal(t, http.StatusBadRequest, self.Code)

	rec := api.do(http.MethodPost, "/api/group-requests", asha.Token, dto.SendGroupRequestRequest{
		ToUserID: bala.User.ID, RequestType: "direct_request",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sent := decode[dto.GroupRequestResponse](t, rec)
	assert.Equal(t, "pending", sent.Status)
	assert.Equal(t, "Asha", sent.FromUserName)

	incoming := decode[[]dto.GroupRequestResponse](t, api.do(http.MethodGet, "/api/group-requests/incoming", bala.Token, nil))
	require.Len(t, incoming, 1)
	assert.Equal(t, sent.ID, incoming[0].ID)

	assert.Equal(t, http.StatusForbidden,
		api.do(http.MethodPost, "/api/group-requests/"+sent.ID+"/accept", asha.Token, nil).Code)

	rec = api.do(http.MethodPost, "/api/group-requests/"+sent.ID+"/accept", bala.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	accepted := decode[dto.AcceptGroupRequestResponse](t, rec)
	require.True(t, accepted.GroupFormed)
	require.NotNil(t, accepted.Group)
	assert.Equal(t, "accepted", accepted.Request.Status)
	require.Len(t, accepted.Group.Members, 2)
	assert.Equal(t, bala.User.ID, accepted.Group.Members[0].UserID)
	assert.Equal(t, asha.User.ID, accepted.Group.Members[1].UserID)
	groupID := accepted.Group.ID

	assert.Equal(t, http.StatusConflict,
		api.do(http.MethodPost, "/api/group-requests/"+sent.ID+"/reject", bala.Token, nil).Code)

	groups := decode[[]dto.GroupResponse](t, api.do(http.MethodGet, "/api/groups", asha.Token, nil))
	require.Len(t, groups, 1)
	assert.Equal(t, groupID, groups[0].ID)

	posted := api.do(http.MethodPost, "/api/groups/"+groupID+"/messages", asha.Token, dto.PostMessageRequest{Message: "Meet at main gate"})
	require.Equal(t, http.StatusCreated, posted.Code, posted.Body.String())
	messages := decode[[]dto.ChatMessageResponse](t, api.do(http.MethodGet, "/api/groups/"+groupID+"/messages", bala.Token, nil))
	require.Len(t, messages, 1)
	assert.Equal(t, "Asha", messages[0].UserName)
	assert.Equal(t, http.StatusBadRequest,
		api.do(http.MethodGet, "/api/groups/"+groupID+"/messages?since=yesterday", bala.Token, nil).Code)

	confirmed := api.do(http.MethodPost, "/api/groups/"+groupID+"/confirm", asha.Token, nil)
	require.Equal(t, http.StatusOK, confirmed.Code)
	assert.False(t, decode[dto.GroupResponse](t, confirmed).FullyConfirmed)

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/groups/"+groupID, asha.Token, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/groups/"+groupID, bala.Token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/groups/"+groupID, bala.Token, nil).Code)
}

func TestLeaveDeletesPairGroup(t *testing.T) {
	api := newAPI(t)
	asha := api.register("Asha", "asha", "21BCE1001", "female")
	bala := api.register("Bala", "bala", "21BCE1002", "male")
	carl := api.register("Carl", "carl", "21BCE1003", "male")
	api.createRequest(asha.Token)
	api.createRequest(bala.Token)

	sent := decode[dto.GroupRequestResponse](t, api.do(http.MethodPost, "/api/group-requests", asha.Token,
		dto.SendGroupRequestRequest{ToUserID: bala.User.ID, RequestType: "direct_request"}))
	accepted := decode[dto.AcceptGroupRequestResponse](t, api.do(http.MethodPost, "/api/group-requests/"+sent.ID+"/accept", bala.Token, nil))
	require.NotNil(t, accepted.Group)
	groupID := accepted.Group.ID

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/groups/"+groupID+"/leave", carl.Token, nil).Code)

	rec := api.do(http.MethodPost, "/api/groups/"+groupID+"/leave", asha.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	left := decode[dto.LeaveGroupResponse](t, rec)
	assert.True(t, left.GroupDeleted)
	assert.Nil(t, left.Group)

	assert.Empty(t, decode[[]dto.GroupResponse](t, api.do(http.MethodGet, "/api/groups", bala.Token, nil)))
}

func TestAcceptWithoutSharedSlot(t *testing.T) {
	api := newAPI(t)
	asha := api.register("Asha", "asha", "21BCE1001", "female")
	bala := api.register("Bala", "bala", "21BCE1002", "male")
	api.createRequest(asha.Token)

	sent := decode[dto.GroupRequestResponse](t, api.do(http.MethodPost, "/api/group-requests", asha.Token,
		dto.SendGroupRequestRequest{ToUserID: bala.User.ID, RequestType: "direct_request"}))
	rec := api.do(http.MethodPost, "/api/group-requests/"+sent.ID+"/accept", bala.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	accepted := decode[dto.AcceptGroupRequestResponse](t, rec)
	assert.False(t, accepted.GroupFormed)
	assert.Nil(t, accepted.Group)
}
