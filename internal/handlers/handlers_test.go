package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/nano-posts/backend/internal/cache"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/router"
	"github.com/anonto42/nano-posts/backend/internal/testsupport"
	"github.com/anonto42/nano-posts/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	db    *gorm.DB
	cache cache.ReactionCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	reactionCache, err := cache.NewSturdycCache(cache.DefaultConfig())
	require.NoError(t, err)

	db := testsupport.NewDB(t)
	e := echo.New()
	e.Validator = validators.NewValidator()
	router.SetupRoutes(e, router.Dependencies{
		DB:             db,
		ReactionCache:  reactionCache,
		JWTSecret:      "test-secret",
		AccessTokenTTL: time.Hour,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	return &testServer{t: t, e: e, db: db, cache: reactionCache}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signUp registers a user through the API and returns an access token for it.
func (s *testServer) signUp(username string) string {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/sign-up", "", models.CreateUserRequest{
		Username: username,
		Email:    username + "@email.com",
		Password: "password",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	form := url.Values{"username": {username}, "password": {"password"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var token models.TokenResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &token))
	assert.Equal(s.t, "bearer", token.TokenType)
	return token.AccessToken
}

func (s *testServer) createPost(token string) models.Post {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/posts", token, models.CreatePostRequest{Title: "title_test", Text: "test_1"})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var post models.Post
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &post))
	return post
}

func (s *testServer) reactions(postID uint) []models.Reaction {
	s.t.Helper()

	rec := s.do(http.MethodGet, reactionsPath(postID), "", nil)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var reactions []models.Reaction
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &reactions))
	return reactions
}

func reactionsPath(postID uint) string {
	return fmt.Sprintf("/posts/%d/reactions", postID)
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestReactionFlow(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.signUp("user_a")
	reactorToken := s.signUp("user_b")
	post := s.createPost(ownerToken)

	assert.Empty(t, s.reactions(post.ID))

	rec := s.do(http.MethodPost, reactionsPath(post.ID), reactorToken, echo.Map{"value": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Successfully reacted"}`, rec.Body.String())

	reactions := s.reactions(post.ID)
	require.Len(t, reactions, 1)
	assert.Equal(t, models.Like, reactions[0].Value)

	rec = s.do(http.MethodPost, reactionsPath(post.ID), reactorToken, echo.Map{"value": -1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	reactions = s.reactions(post.ID)
	require.Len(t, reactions, 1)
	assert.Equal(t, models.Dislike, reactions[0].Value)
	assert.Equal(t, post.ID, reactions[0].PostID)

	rec = s.do(http.MethodPost, reactionsPath(post.ID), ownerToken, echo.Map{"value": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot react to own post", detail(t, rec))

	rec = s.do(http.MethodDelete, reactionsPath(post.ID), reactorToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.reactions(post.ID))

	rec = s.do(http.MethodDelete, reactionsPath(post.ID), reactorToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddReactionRejectsInvalidValues(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.signUp("user_a")
	reactorToken := s.signUp("user_b")
	post := s.createPost(ownerToken)

	for _, body := range []any{echo.Map{"value": 0}, echo.Map{"value": -2}, echo.Map{"value": 2}, echo.Map{}, echo.Map{"value": "like"}} {
		rec := s.do(http.MethodPost, reactionsPath(post.ID), reactorToken, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "body %v", body)
	}

	var count int64
	require.NoError(t, s.db.Model(&models.Reaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestReactionsOnMissingPost(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("user_b")

	rec := s.do(http.MethodPost, reactionsPath(999), token, echo.Map{"value": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, reactionsPath(999), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, reactionsPath(999), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReactionsServedFromCache(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.signUp("user_a")
	reactorToken := s.signUp("user_b")
	post := s.createPost(ownerToken)

	rec := s.do(http.MethodPost, reactionsPath(post.ID), reactorToken, echo.Map{"value": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, s.reactions(post.ID), 1)

	_, ok, err := s.cache.Get(context.Background(), post.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// A write that bypasses the service is invisible until the next invalidation.
	require.NoError(t, s.db.Where("post_id = ?", post.ID).Delete(&models.Reaction{}).Error)
	assert.Len(t, s.reactions(post.ID), 1)

	rec = s.do(http.MethodPost, reactionsPath(post.ID), reactorToken, echo.Map{"value": -1})
	require.Equal(t, http.StatusOK, rec.Code)
	reactions := s.reactions(post.ID)
	require.Len(t, reactions, 1)
	assert.Equal(t, models.Dislike, reactions[0].Value)
}

func TestAuthGuard(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.signUp("user_a")
	post := s.createPost(ownerToken)

	rec := s.do(http.MethodPost, reactionsPath(post.ID), "", echo.Map{"value": 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	rec = s.do(http.MethodPost, reactionsPath(post.ID), "not-a-token", echo.Map{"value": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	inactiveToken := s.signUp("user_c")
	require.NoError(t, s.db.Model(&models.User{}).Where("username = ?", "user_c").Update("is_active", false).Error)
	rec = s.do(http.MethodPost, reactionsPath(post.ID), inactiveToken, echo.Map{"value": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Inactive user", detail(t, rec))

	require.NoError(t, s.db.Where("username = ?", "user_c").Delete(&models.User{}).Error)
	rec = s.do(http.MethodPost, reactionsPath(post.ID), inactiveToken, echo.Map{"value": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Bad token", detail(t, rec))
}

func TestSignUpAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.signUp("user_a")

	rec := s.do(http.MethodPost, "/sign-up", "", models.CreateUserRequest{Username: "user_a", Email: "other@email.com", Password: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exist", detail(t, rec))

	rec = s.do(http.MethodPost, "/sign-up", "", models.CreateUserRequest{Username: "user_b", Email: "not-an-email", Password: "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	form := url.Values{"username": {"user_a"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/auth/firebase-login", "", echo.Map{"idToken": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("user_a")
	s.signUp("user_b")

	rec := s.do(http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "user_a", me.Username)
}

func TestPostEndpoints(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.signUp("user_a")
	otherToken := s.signUp("user_b")
	post := s.createPost(ownerToken)

	rec := s.do(http.MethodPost, "/posts", ownerToken, echo.Map{"title": "", "text": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(http.MethodPatch, fmt.Sprintf("/posts/%d", post.ID), otherToken, echo.Map{"title": "hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPatch, fmt.Sprintf("/posts/%d", post.ID), ownerToken, echo.Map{"title": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "test_1", updated.Text)

	rec = s.do(http.MethodPost, reactionsPath(post.ID), otherToken, echo.Map{"value": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var withReactions models.PostWithReactions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withReactions))
	assert.Len(t, withReactions.Reactions, 1)

	rec = s.do(http.MethodGet, "/posts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []models.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 1)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodDelete, fmt.Sprintf("/posts/%d", post.ID), ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, reactionsPath(post.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/posts/abc", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNotificationsDisabled(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("user_a")

	rec := s.do(http.MethodGet, "/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(http.MethodPut, "/notifications/abc/read", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
