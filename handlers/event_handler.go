package handlers

import (
	"campus-server/middleware"
	"campus-server/services"
	"campus-server/utils/errors"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
)

type EventHandler struct {
	eventService *services.EventService
	userService  *services.UserService
	imageService *services.ImageService
}

func NewEventHandler(eventService *services.EventService, userService *services.UserService, imageService *services.ImageService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		userService:  userService,
		imageService: imageService,
	}
}

// ListEvents handles GET /events.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{id}.
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetEvent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, event)
}

// ListEventsByUser handles GET /events/user/{userId}.
func (h *EventHandler) ListEventsByUser(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListEventsByAuthor(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, events)
}

// RecommendedEvents handles GET /events/recommended, filtering the
// catalog by the authenticated user's interests and majors.
func (h *EventHandler) RecommendedEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	events, err := h.eventService.RecommendedEvents(r.Context(), user)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, events)
}

// CreateEvent handles POST /events. The author is the token holder.
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		middleware.WriteError(w, errors.ErrUnauthorized)
		return
	}

	var input services.EventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	event, err := h.eventService.CreateEvent(r.Context(), userID, input)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteCreated(w, "Event created successfully", event)
}

// updatableEventFields is the allow-list for PUT /events/{id}.
var updatableEventFields = map[string]bool{
	"title":       true,
	"startTime":   true,
	"endTime":     true,
	"location":    true,
	"description": true,
	"categories":  true,
	"ticketInfo":  true,
}

// UpdateEvent handles PUT /events/{id}.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	fields := bson.M{}
	for key, value := range body {
		if !updatableEventFields[key] {
			continue
		}
		if key == "startTime" || key == "endTime" {
			raw, ok := value.(string)
			if !ok {
				middleware.WriteError(w, errors.NewValidation("Invalid "+key))
				return
			}
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				middleware.WriteError(w, errors.NewValidation("Invalid "+key))
				return
			}
			fields[key] = parsed
			continue
		}
		fields[key] = value
	}

	updated, err := h.eventService.UpdateEvent(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, updated)
}

// DeleteEvent handles DELETE /events/{id}.
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.eventService.DeleteEvent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	h.imageService.DeleteQuietly(deleted.ImageID)
	middleware.WriteData(w, http.StatusOK, deleted)
}

// UploadEventImage handles POST /events/{id}/image with a multipart
// "image" part. A previous image blob is deleted best-effort.
func (h *EventHandler) UploadEventImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.WriteError(w, errors.NewValidation("Missing image file"))
		return
	}
	defer file.Close()

	imageID, err := h.imageService.Upload(header.Filename, file)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	previous, err := h.eventService.SetEventImage(r.Context(), mux.Vars(r)["id"], imageID)
	if err != nil {
		h.imageService.DeleteQuietly(imageID)
		middleware.WriteError(w, err)
		return
	}
	h.imageService.DeleteQuietly(previous)

	middleware.WriteData(w, http.StatusOK, map[string]string{"imageId": imageID.Hex()})
}

// GetEventImage handles GET /events/image/{id}, streaming the blob.
func (h *EventHandler) GetEventImage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	if err := h.imageService.Download(mux.Vars(r)["id"], w); err != nil {
		middleware.WriteError(w, err)
		return
	}
}
