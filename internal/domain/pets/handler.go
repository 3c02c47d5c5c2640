package pets

import (
	"net/http"
	"time"

	"petvet/internal/domain/records"
	"petvet/internal/middleware"
	"petvet/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, recordsSvc *records.Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		// Perfil + historial (owner o admin)
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))

		if recordsSvc != nil {
			records.RegisterPetRoutes(pr, recordsSvc)
		}
	})
}

// petRequest sirve para POST y PUT (reemplazo completo: name y species obligatorios).
type petRequest struct {
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed"`
	BirthDate   string   `json:"birth_date"` // YYYY-MM-DD opcional
	Weight      *float64 `json:"weight"`
	Color       string   `json:"color"`
	MicrochipID string   `json:"microchip_id"`
	OwnerName   string   `json:"owner_name"`
	OwnerPhone  string   `json:"owner_phone"`
	OwnerEmail  string   `json:"owner_email"`
	PhotoURL    string   `json:"photo_url"`
	Notes       string   `json:"notes"`
}

type petResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed,omitempty"`
	BirthDate   *string   `json:"birth_date,omitempty"`
	Weight      *float64  `json:"weight,omitempty"`
	Color       string    `json:"color,omitempty"`
	MicrochipID string    `json:"microchip_id,omitempty"`
	OwnerName   string    `json:"owner_name,omitempty"`
	OwnerPhone  string    `json:"owner_phone,omitempty"`
	OwnerEmail  string    `json:"owner_email,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type petDetailResponse struct {
	petResponse
	VetRecords []records.Response `json:"vet_records"`
}

func (req petRequest) toInput() (Input, error) {
	bd, err := httpx.ParseDate("birth_date", req.BirthDate)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		BirthDate:   bd,
		Weight:      req.Weight,
		Color:       req.Color,
		MicrochipID: req.MicrochipID,
		OwnerName:   req.OwnerName,
		OwnerPhone:  req.OwnerPhone,
		OwnerEmail:  req.OwnerEmail,
		PhotoURL:    req.PhotoURL,
		Notes:       req.Notes,
	}, nil
}

// createPetHandler godoc
// @Summary Crear mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param body body petRequest true "mascota"
// @Success 201 {object} petResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())

		var req petRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), id, in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Admin ve todas; owner solo las propias.
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.Identity(r.Context()))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota con historial
// @Tags pets
// @Produce json
// @Param petID path string true "id"
// @Success 200 {object} petDetailResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.Get(r.Context(), middleware.Identity(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, petDetailResponse{
			petResponse: toPetResponse(d.Pet),
			VetRecords:  records.ToResponses(d.Records),
		})
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())

		var req petRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Update(r.Context(), id, chi.URLParam(r, "petID"), in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.Identity(r.Context()), chi.URLParam(r, "petID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "pet deleted"})
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		BirthDate:   httpx.FormatDate(p.BirthDate),
		Weight:      p.Weight,
		Color:       p.Color,
		MicrochipID: p.MicrochipID,
		OwnerName:   p.OwnerName,
		OwnerPhone:  p.OwnerPhone,
		OwnerEmail:  p.OwnerEmail,
		PhotoURL:    p.PhotoURL,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
