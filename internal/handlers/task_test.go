package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTaskHTTP(t *testing.T, env *handlerTestEnv, cookies []*http.Cookie, projectID uint64, title string) uint64 {
	t.Helper()

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":      title,
		"project_id": projectID,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	return uint64(decodeBody(t, w)["id"].(float64))
}

func TestCreateTask_DefaultsAndValidation(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")
	projectID := createProjectHTTP(t, env, cookies, "Website")

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":      "Build homepage",
		"project_id": projectID,
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "TODO", body["status"])
	require.Equal(t, "MEDIUM", body["priority"])
	require.Nil(t, body["completed_at"])

	// Missing title fails binding.
	w = env.do(t, http.MethodPost, "/api/tasks", map[string]any{"project_id": projectID}, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown project is absent, not forbidden.
	w = env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":      "Orphan",
		"project_id": 9999,
	}, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskCompletion_OverHTTP(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")
	projectID := createProjectHTTP(t, env, cookies, "Website")
	taskID := createTaskHTTP(t, env, cookies, projectID, "Finish me")

	url := fmt.Sprintf("/api/tasks/%d", taskID)

	w := env.do(t, http.MethodPatch, url, map[string]any{"status": "DONE"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, decodeBody(t, w)["completed_at"])

	w = env.do(t, http.MethodPatch, url, map[string]any{"status": "IN_PROGRESS"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decodeBody(t, w)["completed_at"])
}

func TestDeleteTask_ThenGone(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")
	projectID := createProjectHTTP(t, env, cookies, "Website")
	taskID := createTaskHTTP(t, env, cookies, projectID, "Short lived")

	url := fmt.Sprintf("/api/tasks/%d", taskID)

	w := env.do(t, http.MethodDelete, url, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, url, nil, cookies)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTasks_FilterQuery(t *testing.T) {
	env := setupHandlerTestEnv(t)
	cookies := env.signup(t, "owner@example.com")
	projectID := createProjectHTTP(t, env, cookies, "Website")

	w := env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":      "Fix login outage",
		"project_id": projectID,
		"priority":   "URGENT",
	}, cookies)
	require.Equal(t, http.StatusCreated, w.Code)
	createTaskHTTP(t, env, cookies, projectID, "Write changelog")

	w = env.do(t, http.MethodGet, "/api/tasks?priority=URGENT&search=login", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	require.Equal(t, "Fix login outage", tasks[0].(map[string]any)["title"])

	// A malformed filter value is rejected up front.
	w = env.do(t, http.MethodGet, "/api/tasks?overdue=banana", nil, cookies)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignment_NotifiesOverHTTP(t *testing.T) {
	env := setupHandlerTestEnv(t)
	ownerCookies := env.signup(t, "owner@example.com")
	memberCookies := env.signup(t, "member@example.com")

	projectID := createProjectHTTP(t, env, ownerCookies, "Website")
	w := env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/members", projectID), map[string]any{
		"email": "member@example.com",
	}, ownerCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/tasks", map[string]any{
		"title":          "For the member",
		"project_id":     projectID,
		"assigned_to_id": 2,
	}, ownerCookies)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/notifications", nil, memberCookies)
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decodeBody(t, w)["notifications"].([]any)
	require.Len(t, notifications, 1)
	require.Equal(t, "TASK_ASSIGNED", notifications[0].(map[string]any)["type"])

	w = env.do(t, http.MethodGet, "/api/notifications/unread-count", nil, memberCookies)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = env.do(t, http.MethodPost, "/api/notifications/read-all", nil, memberCookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/notifications/unread-count", nil, memberCookies)
	require.Equal(t, float64(0), decodeBody(t, w)["count"])
}
