package directory

import (
	"regexp"
	"strings"

	"petvet/internal/platform/apperr"
)

// Listing es una clínica tal como aparece en el directorio externo, ya normalizada.
type Listing struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	DetailLink string `json:"detail_link"`
}

// Tagged es un Listing marcado contra la lista de clínicas partner.
type Tagged struct {
	Listing
	Partnered bool
}

var zipRe = regexp.MustCompile(`^\d{5}$`)

// ValidateZip exige exactamente 5 dígitos ASCII.
func ValidateZip(zip string) error {
	if !zipRe.MatchString(zip) {
		return apperr.Validation("zip must be exactly 5 digits").WithCode("invalid_zip")
	}
	return nil
}

// collapse junta espacios/saltos de línea en un solo espacio y recorta.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
