package directory

import (
	"net/http"
	"strings"

	"petvet/internal/middleware"
	"petvet/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/directory/search", searchHandler(svc))
}

type vetResponse struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	DetailLink string `json:"detail_link"`
	Partnered  bool   `json:"partnered"`
}

type searchResponse struct {
	Vets []vetResponse `json:"vets"`
}

// searchHandler godoc
// @Summary Buscar clínicas por ZIP
// @Description Recorre el directorio externo y marca las clínicas partner.
// @Tags directory
// @Produce json
// @Param zip query string true "ZIP de 5 dígitos"
// @Success 200 {object} searchResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /directory/search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zip := strings.TrimSpace(r.URL.Query().Get("zip"))

		items, err := svc.Search(r.Context(), middleware.Identity(r.Context()), zip)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := searchResponse{Vets: make([]vetResponse, 0, len(items))}
		for _, t := range items {
			out.Vets = append(out.Vets, vetResponse{
				Name:       t.Name,
				Address:    t.Address,
				DetailLink: t.DetailLink,
				Partnered:  t.Partnered,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}
