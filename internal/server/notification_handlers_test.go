package server

import (
	"fmt"
	"net/http"
	"testing"

	"muckd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationLifecycle(t *testing.T) {
	h := newTestServer(t)
	albert := h.createUser("albert")
	berta := h.createUser("berta")
	h.befriend(albert, berta)
	albertToken := h.token(albert)
	bertaToken := h.token(berta)

	for _, content := range []string{"soup's on", "did you eat yet?"} {
		resp := h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d", berta.ID),
			albertToken, map[string]string{"content": content})
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := h.do(http.MethodGet, "/api/notifications/", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notifs []models.Notification
	readJSON(t, resp, &notifs)
	require.Len(t, notifs, 2)

	resp = h.do(http.MethodGet, "/api/notifications/unread-count", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count struct {
		Count int64 `json:"count"`
	}
	readJSON(t, resp, &count)
	assert.Equal(t, int64(2), count.Count)

	// reading one leaves the other unread
	resp = h.do(http.MethodPost,
		fmt.Sprintf("/api/notifications/%d/read", notifs[0].ID), bertaToken, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(http.MethodGet, "/api/notifications/unread-count", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	readJSON(t, resp, &count)
	assert.Equal(t, int64(1), count.Count)

	resp = h.do(http.MethodPost, "/api/notifications/read-all", bertaToken, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(http.MethodGet, "/api/notifications/unread-count", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	readJSON(t, resp, &count)
	assert.Equal(t, int64(0), count.Count)

	resp = h.do(http.MethodDelete,
		fmt.Sprintf("/api/notifications/%d", notifs[0].ID), bertaToken, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = h.do(http.MethodGet, "/api/notifications/", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var remaining []models.Notification
	readJSON(t, resp, &remaining)
	assert.Len(t, remaining, 1)
}

func TestNotificationsAreOwnerScoped(t *testing.T) {
	h := newTestServer(t)
	albert := h.createUser("albert")
	berta := h.createUser("berta")
	h.befriend(albert, berta)
	albertToken := h.token(albert)
	bertaToken := h.token(berta)

	resp := h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d", berta.ID),
		albertToken, map[string]string{"content": "ping"})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = h.do(http.MethodGet, "/api/notifications/", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notifs []models.Notification
	readJSON(t, resp, &notifs)
	require.Len(t, notifs, 1)

	// albert cannot touch berta's notification
	resp = h.do(http.MethodPost,
		fmt.Sprintf("/api/notifications/%d/read", notifs[0].ID), albertToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.do(http.MethodDelete,
		fmt.Sprintf("/api/notifications/%d", notifs[0].ID), albertToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
