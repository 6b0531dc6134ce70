package handlers

import (
	"campus-server/middleware"
	"campus-server/services"
	"campus-server/utils/errors"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type OrgHandler struct {
	orgService      *services.OrgService
	categoryService *services.CategoryService
}

func NewOrgHandler(orgService *services.OrgService, categoryService *services.CategoryService) *OrgHandler {
	return &OrgHandler{orgService: orgService, categoryService: categoryService}
}

// ListOrgs handles GET /orgs.
func (h *OrgHandler) ListOrgs(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.orgService.ListOrgs(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, orgs)
}

// GetOrg handles GET /orgs/{id}.
func (h *OrgHandler) GetOrg(w http.ResponseWriter, r *http.Request) {
	org, err := h.orgService.GetOrg(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, org)
}

// CreateOrg handles POST /orgs.
func (h *OrgHandler) CreateOrg(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.WriteError(w, errors.ErrInvalidInput)
		return
	}

	org, err := h.orgService.CreateOrg(r.Context(), input.Name)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteCreated(w, "Organization created successfully", org)
}

// ListCategories handles GET /categories.
func (h *OrgHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.WriteData(w, http.StatusOK, categories)
}
