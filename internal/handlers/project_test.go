package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// createProjectHTTP posts a project and returns its ID from the response.
func createProjectHTTP(t *testing.T, env *handlerTestEnv, cookies []*http.Cookie, name string) uint64 {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{"name": name}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	return uint64(body["id"].(float64))
}

func TestProjectLifecycle(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")

	projectID := createProjectHTTP(t, env, cookies, "Website")

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Website", decodeBody(t, w)["name"])

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/projects/%d", projectID), map[string]any{
		"description": "Marketing site",
	}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Marketing site", decodeBody(t, w)["description"])

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", projectID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProject_ForeignAccessForbidden(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerCookies := env.signup(t, "owner@example.com")
	outsiderCookies := env.signup(t, "outsider@example.com")

	projectID := createProjectHTTP(t, env, ownerCookies, "Private")

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", projectID), nil, outsiderCookies)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembers_AddDuplicateConflicts(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerCookies := env.signup(t, "owner@example.com")
	env.signup(t, "member@example.com")

	projectID := createProjectHTTP(t, env, ownerCookies, "Website")
	membersURL := fmt.Sprintf("/api/projects/%d/members", projectID)

	w := env.do(t, http.MethodPost, membersURL, map[string]any{"email": "member@example.com"}, ownerCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, membersURL, map[string]any{"email": "member@example.com"}, ownerCookies)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestMembers_OwnerRowIsProtected(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerCookies := env.signup(t, "owner@example.com")

	projectID := createProjectHTTP(t, env, ownerCookies, "Website")

	// The owner is user 1 in a fresh database.
	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/projects/%d/members/1", projectID), map[string]any{
		"role": "MEMBER",
	}, ownerCookies)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d/members/1", projectID), nil, ownerCookies)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestMembers_NonOwnerCannotAdminister(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerCookies := env.signup(t, "owner@example.com")
	memberCookies := env.signup(t, "member@example.com")
	env.signup(t, "third@example.com")

	projectID := createProjectHTTP(t, env, ownerCookies, "Website")
	membersURL := fmt.Sprintf("/api/projects/%d/members", projectID)

	w := env.do(t, http.MethodPost, membersURL, map[string]any{"email": "member@example.com"}, ownerCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, membersURL, map[string]any{"email": "third@example.com"}, memberCookies)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectStatistics_Endpoint(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")
	projectID := createProjectHTTP(t, env, cookies, "Website")

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":      "Only task",
		"project_id": projectID,
		"status":     "DONE",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/statistics", projectID), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, float64(1), body["total_tasks"])
	require.Equal(t, float64(100), body["completion_rate"])
}

func TestListProjects_Paginated(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")

	for i := 0; i < 3; i++ {
		createProjectHTTP(t, env, cookies, fmt.Sprintf("Project %d", i))
	}

	w := env.do(t, http.MethodGet, "/api/projects?page=1&limit=2", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Len(t, body["projects"], 2)
	require.Equal(t, float64(3), body["total_count"])
	require.Equal(t, float64(2), body["total_pages"])
}
