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
)

type AuthHandler struct {
	userService  *services.UserService
	imageService *services.ImageService
}

func NewAuthHandler(userService *services.UserService, imageService *services.ImageService) *AuthHandler {
	return &AuthHandler{userService: userService, imageService: imageService}
}

// RegisterUser handles POST /users. Accepts JSON, or multipart form data
// when the client attaches a profile picture.
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeRegistration(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	user, err := h.userService.Register(r.Context(), input)
	if err != nil {
		// The picture blob is orphaned if registration fails after upload
		if !input.ProfilePicture.IsZero() {
			h.imageService.DeleteQuietly(input.ProfilePicture)
		}
		middleware.WriteError(w, err)
		return
	}

	middleware.WriteCreated(w, "User created successfully", user)
}

// LoginUser handles POST /users/login.
func (h *AuthHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	user, token, err := h.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.WriteData(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) decodeRegistration(r *http.Request) (services.RegisterInput, error) {
	var input services.RegisterInput

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var body struct {
			FirstName string   `json:"firstName"`
			LastName  string   `json:"lastName"`
			Username  string   `json:"username"`
			Email     string   `json:"email"`
			Password  string   `json:"password"`
			Majors    []string `json:"majors"`
			Year      int      `json:"year"`
			Interests []string `json:"interests"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return input, errors.ErrInvalidInput
		}
		input = services.RegisterInput{
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Username:  body.Username,
			Email:     body.Email,
			Password:  body.Password,
			Majors:    body.Majors,
			Year:      body.Year,
			Interests: body.Interests,
		}
		return input, nil
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return input, errors.ErrInvalidInput
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		return input, errors.NewValidation("Invalid graduation year")
	}
	input = services.RegisterInput{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		Majors:    r.Form["majors"],
		Year:      year,
		Interests: r.Form["interests"],
	}

	file, header, err := r.FormFile("profilePicture")
	if err == nil {
		defer file.Close()
		imageID, err := h.imageService.Upload(header.Filename, file)
		if err != nil {
			return input, err
		}
		input.ProfilePicture = imageID
		log.Printf("Stored profile picture %s for new registration", imageID.Hex())
	} else if err != http.ErrMissingFile {
		return input, errors.ErrInvalidInput
	}

	return input, nil
}
