package stats

import (
	"net/http"

	"petvet/internal/middleware"
	"petvet/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/vet/stats", statsHandler(svc))
}

type speciesCountResponse struct {
	Species string `json:"species"`
	Count   int    `json:"count"`
}

type ageCountResponse struct {
	AgeGroup string `json:"ageGroup"`
	Count    int    `json:"count"`
}

type statsResponse struct {
	TotalPatients        int                    `json:"totalPatients"`
	ActivePatients       int                    `json:"activePatients"`
	RecentVisits         int                    `json:"recentVisits"`
	UpcomingAppointments int                    `json:"upcomingAppointments"`
	PatientsBySpecies    []speciesCountResponse `json:"patientsBySpecies"`
	PatientsByAge        []ageCountResponse     `json:"patientsByAge"`
}

// statsHandler godoc
// @Summary Tablero del vet
// @Tags stats
// @Produce json
// @Success 200 {object} statsResponse
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /vet/stats [get]
func statsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.ForVet(r.Context(), middleware.Identity(r.Context()))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := statsResponse{
			TotalPatients:        st.TotalPatients,
			ActivePatients:       st.ActivePatients,
			RecentVisits:         st.RecentVisits,
			UpcomingAppointments: st.UpcomingAppointments,
			PatientsBySpecies:    make([]speciesCountResponse, 0, len(st.PatientsBySpecies)),
			PatientsByAge:        make([]ageCountResponse, 0, len(st.PatientsByAge)),
		}
		for _, s := range st.PatientsBySpecies {
			out.PatientsBySpecies = append(out.PatientsBySpecies, speciesCountResponse(s))
		}
		for _, a := range st.PatientsByAge {
			out.PatientsByAge = append(out.PatientsByAge, ageCountResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
