package pets

import "context"

// OwnerOf expone el owner de una mascota.
// Se usa para evitar ciclos de imports entre módulos (pets <-> records/patients).
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.repo.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}
