package patients

import (
	"net/http"
	"time"

	"petvet/internal/middleware"
	"petvet/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/vet/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(svc))
		pr.Post("/", assignPatientHandler(svc))
		pr.Put("/{assignmentID}", updatePatientHandler(svc))
		pr.Delete("/{assignmentID}", removePatientHandler(svc))
	})
}

type assignRequest struct {
	PetID  string `json:"pet_id"`
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type updateRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type patientPet struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"owner_id"`
	Name      string   `json:"name"`
	Species   string   `json:"species"`
	Breed     string   `json:"breed,omitempty"`
	BirthDate *string  `json:"birth_date,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
}

type patientResponse struct {
	ID            string     `json:"id"`
	VetID         string     `json:"vet_id"`
	PetID         string     `json:"pet_id"`
	AssignedDate  string     `json:"assigned_date"`
	Status        Status     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Pet           patientPet `json:"pet"`
	OwnerUsername string     `json:"owner_username"`
}

// listPatientsHandler godoc
// @Summary Pacientes del vet
// @Tags patients
// @Produce json
// @Param status query string false "active|inactive|discharged"
// @Param species query string false "especie"
// @Success 200 {array} patientResponse
// @Router /vet/patients [get]
func listPatientsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), middleware.Identity(r.Context()), Filter{
			Status:  Status(q.Get("status")),
			Species: q.Get("species"),
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]patientResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toPatientResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// assignPatientHandler godoc
// @Summary Asignar mascota al vet
// @Tags patients
// @Accept json
// @Produce json
// @Param body body assignRequest true "asignación"
// @Success 201 {object} patientResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /vet/patients [post]
func assignPatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())

		var req assignRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.Assign(r.Context(), id, AssignInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toPatientResponse(v))
	}
}

func updatePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())

		var req updateRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.Update(r.Context(), id, chi.URLParam(r, "assignmentID"), UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toPatientResponse(v))
	}
}

func removePatientHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), middleware.Identity(r.Context()), chi.URLParam(r, "assignmentID")); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "patient assignment removed"})
	}
}

func toPatientResponse(v View) patientResponse {
	return patientResponse{
		ID:           v.ID,
		VetID:        v.VetID,
		PetID:        v.PetID,
		AssignedDate: v.AssignedDate.Format(httpx.DateLayout),
		Status:       v.Status,
		Notes:        v.Notes,
		CreatedAt:    v.CreatedAt,
		Pet: patientPet{
			ID:        v.Pet.ID,
			OwnerID:   v.Pet.OwnerID,
			Name:      v.Pet.Name,
			Species:   v.Pet.Species,
			Breed:     v.Pet.Breed,
			BirthDate: httpx.FormatDate(v.Pet.BirthDate),
			Weight:    v.Pet.Weight,
		},
		OwnerUsername: v.OwnerUsername,
	}
}
