package handlers

import (
	"campus-server/middleware"
	"campus-server/services"
	"campus-server/utils/errors"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
)

type UserHandler struct {
	userService  *services.UserService
	eventService *services.EventService
	imageService *services.ImageService
}

func NewUserHandler(userService *services.UserService, eventService *services.EventService, imageService *services.ImageService) *UserHandler {
	return &UserHandler{
		userService:  userService,
		eventService: eventService,
		imageService: imageService,
	}
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}. The password hash never serializes.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, user)
}

// updatableUserFields is the allow-list for PUT /users/{id}. Relationship
// lists change only through the friend and saved-event endpoints.
var updatableUserFields = map[string]bool{
	"firstName": true,
	"lastName":  true,
	"username":  true,
	"majors":    true,
	"year":      true,
	"interests": true,
}

// UpdateUser handles PUT /users/{id}. Accepts JSON field updates, or
// multipart form data to replace the profile picture.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	fields, newImage, err := h.decodeUserUpdate(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	if newImage {
		// Replace the old blob before recording the new id. Failures
		// here are logged, never rolled back.
		current, err := h.userService.GetUser(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, err)
			return
		}
		h.imageService.DeleteQuietly(current.ProfilePicture)
	}

	updated, err := h.userService.UpdateUser(r.Context(), id, fields)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /users/{id}.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	deleted, err := h.userService.DeleteUser(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.imageService.DeleteQuietly(deleted.ProfilePicture)
	middleware.WriteData(w, http.StatusOK, deleted)
}

// GetUserImage handles GET /users/image/{id}, streaming the blob.
func (h *UserHandler) GetUserImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	w.Header().Set("Content-Type", "application/octet-stream")
	if err := h.imageService.Download(id, w); err != nil {
		middleware.WriteError(w, err)
		return
	}
}

// SaveEvent handles POST /users/saved-events/{eventId} for the
// authenticated user.
func (h *UserHandler) SaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	updated, err := h.userService.SaveEvent(r.Context(), userID, event.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, updated)
}

// UnsaveEvent handles DELETE /users/saved-events/{eventId}.
func (h *UserHandler) UnsaveEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), mux.Vars(r)["eventId"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	updated, err := h.userService.UnsaveEvent(r.Context(), userID, event.ID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, updated)
}

func (h *UserHandler) decodeUserUpdate(r *http.Request) (bson.M, bool, error) {
	fields := bson.M{}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, false, errors.ErrInvalidInput
		}
		for key, value := range body {
			if !updatableUserFields[key] {
				continue
			}
			if key == "year" {
				year, ok := value.(float64)
				if !ok || year < 1900 || year > 2100 {
					return nil, false, errors.NewValidation("Invalid graduation year")
				}
				fields[key] = int(year)
				continue
			}
			fields[key] = value
		}
		return fields, false, nil
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return nil, false, errors.ErrInvalidInput
	}
	for key := range r.MultipartForm.Value {
		if !updatableUserFields[key] {
			continue
		}
		switch key {
		case "majors", "interests":
			fields[key] = r.Form[key]
		case "year":
			year, err := strconv.Atoi(r.FormValue(key))
			if err != nil || year < 1900 || year > 2100 {
				return nil, false, errors.NewValidation("Invalid graduation year")
			}
			fields[key] = year
		default:
			fields[key] = r.FormValue(key)
		}
	}

	file, header, err := r.FormFile("profilePicture")
	if err == http.ErrMissingFile {
		return fields, false, nil
	}
	if err != nil {
		return nil, false, errors.ErrInvalidInput
	}
	defer file.Close()

	imageID, err := h.imageService.Upload(header.Filename, file)
	if err != nil {
		return nil, false, err
	}
	fields["profilePicture"] = imageID
	log.Printf("Stored replacement profile picture %s", imageID.Hex())
	return fields, true, nil
}
