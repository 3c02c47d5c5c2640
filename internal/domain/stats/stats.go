// Package stats arma el tablero del vet: todo se calcula sobre sus propias
// asignaciones y registros; nunca sobre datos de otros vets.
package stats

import (
	"sort"
	"time"

	"petvet/internal/domain/patients"
	"petvet/internal/domain/records"
)

const (
	AgeUnknown     = "Unknown"
	AgeUnder1      = "Under 1 year"
	AgeOneToFive   = "1-5 years"
	AgeFiveToTen   = "5-10 years"
	AgeOverTen     = "Over 10 years"
	recentWindow   = 30
	upcomingWindow = 7
)

type SpeciesCount struct {
	Species string
	Count   int
}

type AgeCount struct {
	AgeGroup string
	Count    int
}

// Stats: contadores en cero y listas vacías (no nil) cuando no hay datos.
type Stats struct {
	TotalPatients        int
	ActivePatients       int
	RecentVisits         int
	UpcomingAppointments int
	PatientsBySpecies    []SpeciesCount
	PatientsByAge        []AgeCount
}

// Aggregate es puro: recibe filas ya filtradas por vet y el "ahora".
func Aggregate(pts []patients.View, recs []records.VetRecord, now time.Time) Stats {
	today := dateOf(now)
	out := Stats{
		PatientsBySpecies: []SpeciesCount{},
		PatientsByAge:     []AgeCount{},
	}

	bySpecies := map[string]int{}
	byAge := map[string]int{}
	for _, p := range pts {
		out.TotalPatients++
		if p.Status != patients.StatusActive {
			continue
		}
		out.ActivePatients++
		bySpecies[p.Pet.Species]++
		byAge[AgeBucket(p.Pet.BirthDate, today)]++
	}

	recentFrom := today.AddDate(0, 0, -recentWindow)
	upcomingTo := today.AddDate(0, 0, upcomingWindow)
	for _, r := range recs {
		if !dateOf(r.VisitDate).Before(recentFrom) {
			out.RecentVisits++
		}
		if r.NextVisitDate != nil {
			next := dateOf(*r.NextVisitDate)
			if !next.Before(today) && !next.After(upcomingTo) {
				out.UpcomingAppointments++
			}
		}
	}

	for species, n := range bySpecies {
		out.PatientsBySpecies = append(out.PatientsBySpecies, SpeciesCount{Species: species, Count: n})
	}
	sort.Slice(out.PatientsBySpecies, func(i, j int) bool {
		a, b := out.PatientsBySpecies[i], out.PatientsBySpecies[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Species < b.Species
	})

	for group, n := range byAge {
		out.PatientsByAge = append(out.PatientsByAge, AgeCount{AgeGroup: group, Count: n})
	}
	sort.Slice(out.PatientsByAge, func(i, j int) bool {
		a, b := out.PatientsByAge[i], out.PatientsByAge[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.AgeGroup < b.AgeGroup
	})

	return out
}

// AgeBucket usa días completos con cortes estrictos (<365, <1825, <3650).
func AgeBucket(birth *time.Time, today time.Time) string {
	if birth == nil {
		return AgeUnknown
	}
	days := int(dateOf(today).Sub(dateOf(*birth)).Hours() / 24)
	switch {
	case days < 365:
		return AgeUnder1
	case days < 1825:
		return AgeOneToFive
	case days < 3650:
		return AgeFiveToTen
	default:
		return AgeOverTen
	}
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
