package stats

import (
	"context"
	"time"

	"petvet/internal/authz"
	"petvet/internal/domain/patients"
	"petvet/internal/domain/records"
)

type PatientSource interface {
	ListByVet(ctx context.Context, vetID string, f patients.Filter) ([]patients.View, error)
}

type RecordSource interface {
	ListByVet(ctx context.Context, vetID string, f records.Filter) ([]records.View, error)
}

type Service struct {
	patients PatientSource
	records  RecordSource
	now      func() time.Time
}

func NewService(p PatientSource, r RecordSource) *Service {
	return &Service{patients: p, records: r, now: time.Now}
}

func (s *Service) ForVet(ctx context.Context, id *authz.Identity) (Stats, error) {
	if err := authz.Authorize(id, authz.ActionStatsRead, authz.Resource{}); err != nil {
		return Stats{}, err
	}

	pts, err := s.patients.ListByVet(ctx, id.ID, patients.Filter{})
	if err != nil {
		return Stats{}, err
	}
	views, err := s.records.ListByVet(ctx, id.ID, records.Filter{})
	if err != nil {
		return Stats{}, err
	}

	recs := make([]records.VetRecord, 0, len(views))
	for _, v := range views {
		recs = append(recs, v.VetRecord)
	}
	return Aggregate(pts, recs, s.now()), nil
}
