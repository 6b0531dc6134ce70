package handlers

import (
	"campus-server/middleware"
	"campus-server/services"
	"campus-server/utils/errors"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type FriendHandler struct {
	friendService *services.FriendService
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

// SendFriendRequest handles POST /users/send-friend-request.
func (h *FriendHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, counterpart, err := decodeFriendAction(r, "recipientId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.SendRequest(r.Context(), userID, counterpart); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend request sent")
}

// AcceptFriendRequest handles POST /users/accept-friend-request.
func (h *FriendHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, counterpart, err := decodeFriendAction(r, "senderId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.AcceptRequest(r.Context(), userID, counterpart); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend request accepted")
}

// DeclineFriendRequest handles POST /users/decline-friend-request.
func (h *FriendHandler) DeclineFriendRequest(w http.ResponseWriter, r *http.Request) {
	userID, counterpart, err := decodeFriendAction(r, "senderId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.DeclineRequest(r.Context(), userID, counterpart); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend request declined")
}

// RemoveFriend handles POST /users/remove-friend.
func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, counterpart, err := decodeFriendAction(r, "friendId")
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if err := h.friendService.RemoveFriend(r.Context(), userID, counterpart); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteMessage(w, http.StatusOK, "Friend removed")
}

// FriendStatus handles GET /users/friend-status/{id}.
func (h *FriendHandler) FriendStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	status, err := h.friendService.Status(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, map[string]string{"status": status})
}

func decodeFriendAction(r *http.Request, field string) (string, string, error) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		return "", "", errors.ErrUnauthorized
	}

	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", "", errors.ErrInvalidInput
	}
	counterpart := body[field]
	if counterpart == "" {
		return "", "", errors.NewValidation("Missing " + field)
	}
	return userID, counterpart, nil
}
