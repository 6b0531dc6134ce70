package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func friendActionRequest(t *testing.T, body string, userID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/users/send-friend-request", strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(context.WithValue(req.Context(), "userID", userID))
	}
	return req
}

func TestDecodeFriendAction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := friendActionRequest(t, `{"recipientId":"507f1f77bcf86cd799439011"}`, "507f191e810c19729de860ea")
		userID, counterpart, err := decodeFriendAction(req, "recipientId")
		require.NoError(t, err)
		assert.Equal(t, "507f191e810c19729de860ea", userID)
		assert.Equal(t, "507f1f77bcf86cd799439011", counterpart)
	})

	t.Run("missing auth context", func(t *testing.T) {
		req := friendActionRequest(t, `{"recipientId":"507f1f77bcf86cd799439011"}`, "")
		_, _, err := decodeFriendAction(req, "recipientId")
		assert.Error(t, err)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := friendActionRequest(t, `{`, "507f191e810c19729de860ea")
		_, _, err := decodeFriendAction(req, "recipientId")
		assert.Error(t, err)
	})

	t.Run("missing field", func(t *testing.T) {
		req := friendActionRequest(t, `{"senderId":"507f1f77bcf86cd799439011"}`, "507f191e810c19729de860ea")
		_, _, err := decodeFriendAction(req, "recipientId")
		assert.Error(t, err)
	})
}
