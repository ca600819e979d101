package server

import (
	"fmt"
	"net/http"
	"testing"

	"muckd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectMessageFlow(t *testing.T) {
	h := newTestServer(t)
	albert := h.createUser("albert")
	berta := h.createUser("berta")
	h.befriend(albert, berta)
	albertToken := h.token(albert)
	bertaToken := h.token(berta)

	resp := h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d", berta.ID),
		albertToken, map[string]string{"content": "lunch at the taco truck?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sent models.Message
	readJSON(t, resp, &sent)
	assert.Equal(t, albert.ID, sent.SenderID)
	assert.Equal(t, berta.ID, sent.ReceiverID)

	resp = h.do(http.MethodGet, "/api/messages/unread-count", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var count struct {
		Count int64 `json:"count"`
	}
	readJSON(t, resp, &count)
	assert.Equal(t, int64(1), count.Count)

	// berta got a notification about the message
	resp = h.do(http.MethodGet, "/api/notifications/", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var notifs []models.Notification
	readJSON(t, resp, &notifs)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotificationMessage, notifs[0].Type)

	// reading the conversation marks it read
	resp = h.do(http.MethodGet, fmt.Sprintf("/api/messages/%d", albert.ID), bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conversation []models.Message
	readJSON(t, resp, &conversation)
	require.Len(t, conversation, 1)
	assert.Equal(t, "lunch at the taco truck?", conversation[0].Content)

	resp = h.do(http.MethodGet, "/api/messages/unread-count", bertaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	readJSON(t, resp, &count)
	assert.Equal(t, int64(0), count.Count)
}

func TestSendMessageRequiresFriendship(t *testing.T) {
	h := newTestServer(t)
	albert := h.createUser("albert")
	carol := h.createUser("carol")
	albertToken := h.token(albert)

	resp := h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d", carol.ID),
		albertToken, map[string]string{"content": "hey stranger"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSendMessageValidation(t *testing.T) {
	h := newTestServer(t)
	albert := h.createUser("albert")
	berta := h.createUser("berta")
	h.befriend(albert, berta)
	albertToken := h.token(albert)

	resp := h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d", berta.ID),
		albertToken, map[string]string{"content": "   "})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = h.do(http.MethodPost, fmt.Sprintf("/api/messages/%d", albert.ID),
		albertToken, map[string]string{"content": "note to self"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
