package server

import (
	"fmt"
	"net/http"
	"testing"

	"weave/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	user := ts.createUser(t, "alice")
	assert.Equal(t, "alice", user.Username)

	t.Run("GetUser", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", user.ID), nil, 0)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		got := decodeBody[models.User](t, resp)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/users", fiber.Map{
			"username": "alice",
			"email":    "alice2@example.com",
		}, 0)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("UnknownUserIs404", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, "/api/users/99999", nil, 0)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("BadIDIs400", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, "/api/users/banana", nil, 0)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthGate(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("MissingToken", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, "/api/requests", nil, 0)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		resp := ts.requestWithAuth(t, http.MethodGet, "/api/requests", "Bearer nonsense")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLikeEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")

	resp := ts.request(t, http.MethodPost, "/api/posts", fiber.Map{
		"title":   "hello",
		"content": "body",
	}, bob.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decodeBody[models.Post](t, resp)

	resp = ts.request(t, http.MethodPost, "/api/likes", fiber.Map{
		"target_id": post.ID,
		"kind":      "POST",
	}, alice.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("ListPostLikes", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/posts/%d/likes", post.ID), nil, 0)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("Unlike", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, "/api/likes", fiber.Map{
			"target_id": post.ID,
			"kind":      "POST",
		}, alice.ID)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = ts.request(t, http.MethodDelete, "/api/likes", fiber.Map{
			"target_id": post.ID,
			"kind":      "POST",
		}, alice.ID)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestRequestEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")

	resp := ts.request(t, http.MethodPost, "/api/requests", fiber.Map{
		"requestee_id": bob.ID,
		"request_type": "FRIEND",
	}, alice.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	request := decodeBody[models.Request](t, resp)
	assert.Equal(t, models.RequestStatusPending, request.Status)

	t.Run("RequesterCannotAccept", func(t *testing.T) {
		resp := ts.request(t, http.MethodPut, fmt.Sprintf("/api/requests/%d/status", request.ID), fiber.Map{
			"status": "ACCEPTED",
		}, alice.ID)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("StrangerCannotTouch", func(t *testing.T) {
		carol := ts.createUser(t, "carol")
		resp := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/requests/%d", request.ID), nil, carol.ID)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("RequesteeAccepts", func(t *testing.T) {
		resp := ts.request(t, http.MethodPut, fmt.Sprintf("/api/requests/%d/status", request.ID), fiber.Map{
			"status": "ACCEPTED",
		}, bob.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		updated := decodeBody[models.Request](t, resp)
		assert.Equal(t, models.RequestStatusAccepted, updated.Status)
	})

	t.Run("FriendListsReflectAcceptance", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d/friends", alice.ID), nil, 0)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("ListReceived", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, "/api/requests?kind=FRIEND&direction=received&accepted=true", nil, bob.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.EqualValues(t, 1, body["count"])
	})
}

func TestBlockEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")

	resp := ts.request(t, http.MethodPost, fmt.Sprintf("/api/blocks/%d", bob.ID), nil, alice.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("Status", func(t *testing.T) {
		resp := ts.request(t, http.MethodGet, fmt.Sprintf("/api/blocks/status/%d", alice.ID), nil, bob.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.Equal(t, true, body["blocked"])
	})

	t.Run("BlockedFollowIsForbidden", func(t *testing.T) {
		resp := ts.request(t, http.MethodPost, "/api/requests", fiber.Map{
			"requestee_id": alice.ID,
			"request_type": "FOLLOW",
		}, bob.ID)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Unblock", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/blocks/%d", bob.ID), nil, alice.ID)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestOrganizationEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.createUser(t, "alice")

	resp := ts.request(t, http.MethodPost, "/api/organizations", fiber.Map{
		"name": "acme",
		"kind": "business",
	}, alice.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	org := decodeBody[models.Organization](t, resp)

	t.Run("AddMember", func(t *testing.T) {
		bob := ts.createUser(t, "bob")
		resp := ts.request(t, http.MethodPost, fmt.Sprintf("/api/organizations/%d/members", org.ID), fiber.Map{
			"user_id": bob.ID,
			"role":    "member",
		}, alice.ID)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/organizations/%d/members", org.ID), nil, 0)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[map[string]any](t, resp)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("VisibilityGatesFollows", func(t *testing.T) {
		resp := ts.request(t, http.MethodPut, fmt.Sprintf("/api/organizations/%d/visibility", org.ID), fiber.Map{
			"can_be_followed": false,
		}, alice.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = ts.request(t, http.MethodPost, "/api/requests", fiber.Map{
			"requestee_id":   org.ID,
			"requestee_type": "business",
			"request_type":   "FOLLOW",
		}, alice.ID)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestContentOwnership(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")

	resp := ts.request(t, http.MethodPost, "/api/posts", fiber.Map{
		"title":   "mine",
		"content": "hands off",
	}, alice.ID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post := decodeBody[models.Post](t, resp)

	t.Run("OnlyAuthorDeletesPost", func(t *testing.T) {
		resp := ts.request(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil, bob.ID)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = ts.request(t, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil, alice.ID)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestDeleteMe(t *testing.T) {
	ts := setupTestServer(t)

	alice := ts.createUser(t, "alice")

	resp := ts.request(t, http.MethodDelete, "/api/me/", nil, alice.ID)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, fmt.Sprintf("/api/users/%d", alice.ID), nil, 0)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.request(t, http.MethodGet, "/health/live", nil, 0)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.request(t, http.MethodGet, "/health/ready", nil, 0)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
