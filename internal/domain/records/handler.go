package records

import (
	"net/http"
	"time"

	"petvet/internal/middleware"
	"petvet/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/vet/records", func(vr chi.Router) {
		vr.Get("/", listVetRecordsHandler(svc))
		vr.Post("/", createRecordHandler(svc))
	})
}

// RegisterPetRoutes cuelga el historial bajo el router de /pets.
func RegisterPetRoutes(pr chi.Router, svc *Service) {
	pr.Get("/{petID}/records", listPetRecordsHandler(svc))
	pr.Delete("/{petID}/records/{recordID}", deleteRecordHandler(svc))
}

type createRecordRequest struct {
	PetID          string `json:"pet_id"`
	VisitDate      string `json:"visit_date"` // YYYY-MM-DD
	Reason         string `json:"reason"`
	Diagnosis      string `json:"diagnosis"`
	Treatment      string `json:"treatment"`
	Medications    string `json:"medications"`
	NextVisitDate  string `json:"next_visit_date"` // YYYY-MM-DD opcional
	OfficeLocation string `json:"office_location"`
	Notes          string `json:"notes"`
}

// Response es la forma pública de un registro; pets la reutiliza en el detalle.
type Response struct {
	ID             string    `json:"id"`
	PetID          string    `json:"pet_id"`
	VetID          string    `json:"vet_id"`
	VisitDate      string    `json:"visit_date"`
	Reason         string    `json:"reason"`
	Diagnosis      string    `json:"diagnosis,omitempty"`
	Treatment      string    `json:"treatment,omitempty"`
	Medications    string    `json:"medications,omitempty"`
	NextVisitDate  *string   `json:"next_visit_date,omitempty"`
	OfficeLocation string    `json:"office_location,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type viewResponse struct {
	Response
	PetName       string `json:"pet_name"`
	Species       string `json:"species"`
	OwnerUsername string `json:"owner_username"`
}

// createRecordHandler godoc
// @Summary Cargar visita
// @Description Requiere cuenta vet con la mascota asignada.
// @Tags records
// @Accept json
// @Produce json
// @Param body body createRecordRequest true "registro"
// @Success 201 {object} viewResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /vet/records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := middleware.Identity(r.Context())

		var req createRecordRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		visit, err := httpx.ParseDate("visit_date", req.VisitDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		next, err := httpx.ParseDate("next_visit_date", req.NextVisitDate)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		v, err := svc.Create(r.Context(), id, CreateInput{
			PetID:          req.PetID,
			VisitDate:      visit,
			Reason:         req.Reason,
			Diagnosis:      req.Diagnosis,
			Treatment:      req.Treatment,
			Medications:    req.Medications,
			NextVisitDate:  next,
			OfficeLocation: req.OfficeLocation,
			Notes:          req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toViewResponse(v))
	}
}

// listVetRecordsHandler godoc
// @Summary Registros del vet
// @Tags records
// @Produce json
// @Param pet_id query string false "mascota"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Success 200 {array} viewResponse
// @Router /vet/records [get]
func listVetRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, err := httpx.ParseDate("date_from", q.Get("date_from"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		to, err := httpx.ParseDate("date_to", q.Get("date_to"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.ListForVet(r.Context(), middleware.Identity(r.Context()), Filter{
			PetID:    q.Get("pet_id"),
			DateFrom: from,
			DateTo:   to,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]viewResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toViewResponse(v))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func listPetRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListForPet(r.Context(), middleware.Identity(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToResponses(items))
	}
}

func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), middleware.Identity(r.Context()),
			chi.URLParam(r, "petID"), chi.URLParam(r, "recordID"))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
	}
}

func ToResponse(rec VetRecord) Response {
	return Response{
		ID:             rec.ID,
		PetID:          rec.PetID,
		VetID:          rec.VetID,
		VisitDate:      rec.VisitDate.Format(httpx.DateLayout),
		Reason:         rec.Reason,
		Diagnosis:      rec.Diagnosis,
		Treatment:      rec.Treatment,
		Medications:    rec.Medications,
		NextVisitDate:  httpx.FormatDate(rec.NextVisitDate),
		OfficeLocation: rec.OfficeLocation,
		Notes:          rec.Notes,
		CreatedAt:      rec.CreatedAt,
	}
}

func ToResponses(items []VetRecord) []Response {
	out := make([]Response, 0, len(items))
	for _, rec := range items {
		out = append(out, ToResponse(rec))
	}
	return out
}

func toViewResponse(v View) viewResponse {
	return viewResponse{
		Response:      ToResponse(v.VetRecord),
		PetName:       v.PetName,
		Species:       v.Species,
		OwnerUsername: v.OwnerUsername,
	}
}
