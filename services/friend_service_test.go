package services

import (
	"campus-server/models"
	"campus-server/utils/errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser() models.User {
	return models.User{ID: primitive.NewObjectID()}
}

func apiStatus(t *testing.T, err error) int {
	t.Helper()
	apiErr, ok := err.(*errors.APIError)
	require.True(t, ok, "expected *errors.APIError, got %T", err)
	return apiErr.Status
}

func TestCheckFriendStatus_Precedence(t *testing.T) {
	a := newUser()
	b := newUser()

	t.Run("unknown when self missing", func(t *testing.T) {
		assert.Equal(t, StatusUnknown, CheckFriendStatus(nil, b))
	})

	t.Run("not friends", func(t *testing.T) {
		assert.Equal(t, StatusNotFriends, CheckFriendStatus(&a, b))
	})

	t.Run("request sent", func(t *testing.T) {
		other := newUser()
		other.FriendRequests = []primitive.ObjectID{a.ID}
		assert.Equal(t, StatusRequestSent, CheckFriendStatus(&a, other))
	})

	t.Run("pending approval", func(t *testing.T) {
		self := newUser()
		self.FriendRequests = []primitive.ObjectID{b.ID}
		assert.Equal(t, StatusPendingApproval, CheckFriendStatus(&self, b))
	})

	t.Run("friends wins over pending", func(t *testing.T) {
		self := newUser()
		self.Friends = []primitive.ObjectID{b.ID}
		self.FriendRequests = []primitive.ObjectID{b.ID}
		assert.Equal(t, StatusFriends, CheckFriendStatus(&self, b))
	})

	t.Run("pending approval wins over request sent", func(t *testing.T) {
		self := newUser()
		other := newUser()
		self.FriendRequests = []primitive.ObjectID{other.ID}
		other.FriendRequests = []primitive.ObjectID{self.ID}
		assert.Equal(t, StatusPendingApproval, CheckFriendStatus(&self, other))
	})
}

func TestValidateSendRequest(t *testing.T) {
	t.Run("unrelated pair is valid", func(t *testing.T) {
		assert.NoError(t, ValidateSendRequest(newUser(), newUser()))
	})

	t.Run("self request rejected", func(t *testing.T) {
		u := newUser()
		err := ValidateSendRequest(u, u)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
	})

	t.Run("already friends rejected", func(t *testing.T) {
		a := newUser()
		b := newUser()
		a.Friends = []primitive.ObjectID{b.ID}
		b.Friends = []primitive.ObjectID{a.ID}
		err := ValidateSendRequest(a, b)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apiStatus(t, err))
	})

	t.Run("one-sided friendship still rejected", func(t *testing.T) {
		a := newUser()
		b := newUser()
		b.Friends = []primitive.ObjectID{a.ID}
		require.Error(t, ValidateSendRequest(a, b))
	})

	t.Run("reverse pending request rejected", func(t *testing.T) {
		a := newUser()
		b := newUser()
		a.FriendRequests = []primitive.ObjectID{b.ID}
		err := ValidateSendRequest(a, b)
		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apiStatus(t, err))
	})

	t.Run("re-send stays valid for idempotent addToSet", func(t *testing.T) {
		a := newUser()
		b := newUser()
		b.FriendRequests = []primitive.ObjectID{a.ID}
		assert.NoError(t, ValidateSendRequest(a, b))
	})
}

func TestValidatePendingRequest(t *testing.T) {
	t.Run("pending request accepted", func(t *testing.T) {
		user := newUser()
		sender := newUser()
		user.FriendRequests = []primitive.ObjectID{sender.ID}
		assert.NoError(t, ValidatePendingRequest(user, sender))
	})

	t.Run("no pending request is 404", func(t *testing.T) {
		err := ValidatePendingRequest(newUser(), newUser())
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
	})

	t.Run("self accept rejected", func(t *testing.T) {
		u := newUser()
		err := ValidatePendingRequest(u, u)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apiStatus(t, err))
	})
}

func TestValidateRemoveFriend(t *testing.T) {
	t.Run("friends pair is valid", func(t *testing.T) {
		a := newUser()
		b := newUser()
		a.Friends = []primitive.ObjectID{b.ID}
		assert.NoError(t, ValidateRemoveFriend(a, b))
	})

	t.Run("not friends is 404", func(t *testing.T) {
		err := ValidateRemoveFriend(newUser(), newUser())
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apiStatus(t, err))
	})

	t.Run("self unfriend rejected", func(t *testing.T) {
		u := newUser()
		require.Error(t, ValidateRemoveFriend(u, u))
	})
}

// The accept effect: both friends lists gain the counterpart and the
// pending entry disappears. Exercised here against the list predicates
// the mongo updates target.
func TestFriendTransitionShapes(t *testing.T) {
	a := newUser()
	b := newUser()

	// sendRequest(A,B)
	b.FriendRequests = append(b.FriendRequests, a.ID)
	assert.Equal(t, StatusRequestSent, CheckFriendStatus(&a, b))
	assert.Equal(t, StatusPendingApproval, CheckFriendStatus(&b, a))

	// acceptRequest(B,A)
	b.FriendRequests = nil
	b.Friends = append(b.Friends, a.ID)
	a.Friends = append(a.Friends, b.ID)
	assert.Equal(t, StatusFriends, CheckFriendStatus(&a, b))
	assert.Equal(t, StatusFriends, CheckFriendStatus(&b, a))
	assert.False(t, a.HasRequestFrom(b.ID))
	assert.False(t, b.HasRequestFrom(a.ID))

	// removeFriend(A,B)
	a.Friends = nil
	b.Friends = nil
	assert.Equal(t, StatusNotFriends, CheckFriendStatus(&a, b))
	assert.Equal(t, StatusNotFriends, CheckFriendStatus(&b, a))
}
