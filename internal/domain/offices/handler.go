package offices

import (
	"net/http"
	"time"

	"petvet/internal/middleware"
	"petvet/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/admin/partnered-offices", func(ar chi.Router) {
		ar.Get("/", listPartneredHandler(svc))
		ar.Post("/", createPartneredHandler(svc))
		ar.Put("/{officeID}", updatePartneredHandler(svc))
		ar.Delete("/{officeID}", deletePartneredHandler(svc))
	})

	r.Route("/owner/preferred-offices", linkRoutes(svc, LinkPreferred))
	r.Route("/vet/office-memberships", linkRoutes(svc, LinkMember))
}

func linkRoutes(svc *Service, kind LinkKind) func(chi.Router) {
	return func(lr chi.Router) {
		lr.Get("/", listLinksHandler(svc, kind))
		lr.Post("/", addLinkHandler(svc, kind))
		lr.Post("/claim", claimHandler(svc, kind))
		lr.Delete("/{linkID}", removeLinkHandler(svc, kind))
	}
}

type partneredRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	DetailLink string `json:"detail_link"`
	ExternalID string `json:"external_id"`
}

type partneredResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	DetailLink string    `json:"detail_link,omitempty"`
	ExternalID string    `json:"external_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type linkRequest struct {
	VetOfficeID string `json:"vet_office_id"`
}

type claimRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type linkResponse struct {
	ID          string    `json:"id"`
	VetOfficeID string    `json:"vet_office_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name,omitempty"`
	Address     string    `json:"address,omitempty"`
	DetailLink  string    `json:"detail_link,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type officesEnvelope[T any] struct {
	Offices []T `json:"offices"`
}

type linkCreatedResponse struct {
	Success bool         `json:"success"`
	Link    linkResponse `json:"link"`
}

func listPartneredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPartnered(r.Context(), middleware.Identity(r.Context()))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]partneredResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toPartneredResponse(o))
		}
		httpx.WriteJSON(w, http.StatusOK, officesEnvelope[partneredResponse]{Offices: out})
	}
}

// createPartneredHandler godoc
// @Summary Alta de clínica partner
// @Tags offices
// @Accept json
// @Produce json
// @Param body body partneredRequest true "clínica"
// @Success 201 {object} partneredResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/partnered-offices [post]
func createPartneredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		var req partneredRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		o, err := svc.CreatePartnered(r.Context(), id, PartneredInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPartneredResponse(o))
	}
}

func updatePartneredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		var req partneredRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		o, err := svc.UpdatePartnered(r.Context(), id, chi.URLParam(r, "officeID"), PartneredInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPartneredResponse(o))
	}
}

func deletePartneredHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeletePartnered(r.Context(), middleware.Identity(r.Context()), chi.URLParam(r, "officeID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func listLinksHandler(svc *Service, kind LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListLinks(r.Context(), middleware.Identity(r.Context()), kind)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		out := make([]linkResponse, 0, len(items))
		for _, v := range items {
			lr := toLinkResponse(v.Link)
			lr.Name, lr.Address, lr.DetailLink = v.Name, v.Address, v.DetailLink
			out = append(out, lr)
		}
		httpx.WriteJSON(w, http.StatusOK, officesEnvelope[linkResponse]{Offices: out})
	}
}

func addLinkHandler(svc *Service, kind LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		var req linkRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		l, err := svc.AddLink(r.Context(), id, kind, req.VetOfficeID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, linkCreatedResponse{Success: true, Link: toLinkResponse(l)})
	}
}

// claimHandler godoc
// @Summary Guardar / unirse a una clínica del directorio
// @Description Resuelve name+address contra las clínicas partner (match exacto normalizado).
// @Tags offices
// @Accept json
// @Produce json
// @Param body body claimRequest true "listado"
// @Success 200 {object} linkCreatedResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /owner/preferred-offices/claim [post]
// @Router /vet/office-memberships/claim [post]
func claimHandler(svc *Service, kind LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())
		var req claimRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		l, err := svc.Claim(r.Context(), id, kind, req.Name, req.Address)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, linkCreatedResponse{Success: true, Link: toLinkResponse(l)})
	}
}

func removeLinkHandler(svc *Service, kind LinkKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.RemoveLink(r.Context(), middleware.Identity(r.Context()), kind, chi.URLParam(r, "linkID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func toPartneredResponse(o PartneredOffice) partneredResponse {
	return partneredResponse{
		ID:         o.ID,
		Name:       o.Name,
		Address:    o.Address,
		DetailLink: o.DetailLink,
		ExternalID: o.ExternalID,
		CreatedAt:  o.CreatedAt,
	}
}

func toLinkResponse(l Link) linkResponse {
	return linkResponse{
		ID:          l.ID,
		VetOfficeID: l.OfficeID,
		UserID:      l.UserID,
		CreatedAt:   l.CreatedAt,
	}
}
