package service

import (
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
	"github.com/NinaPoglic/boar-telemetry-go/internal/spatial"
)

// FixService handles business logic for GPS fixes
type FixService struct {
	repo *repository.FixRepository
}

// NewFixService creates a new fix service
func NewFixService(repo *repository.FixRepository) *FixService {
	return &FixService{repo: repo}
}

// GetFixes retrieves fixes with filtering and pagination
func (s *FixService) GetFixes(filter models.FixFilter) ([]models.Fix, int64, error) {
	return s.repo.GetFixes(filter)
}

// GetEntities returns per-animal coverage summaries with a movement
// footprint: total path length, track centroid and radius of gyration.
func (s *FixService) GetEntities() ([]models.Entity, error) {
	entities, err := s.repo.GetEntities()
	if err != nil {
		return nil, err
	}

	for i := range entities {
		fixes, err := s.repo.GetEntityFixes(entities[i].EntityID)
		if err != nil {
			return nil, err
		}

		points := make([]spatial.Point, len(fixes))
		for j, f := range fixes {
			points[j] = spatial.Point{X: f.X, Y: f.Y}
		}

		center := spatial.Centroid(points)
		entities[i].PathLengthMeters = spatial.PathLength(points)
		entities[i].CentroidX = center.X
		entities[i].CentroidY = center.Y
		entities[i].RadiusOfGyrationMeters = spatial.RadiusOfGyration(points)
	}

	return entities, nil
}

// ImportFixes stores parsed fixes, returning the number actually inserted
func (s *FixService) ImportFixes(fixes []models.Fix) (int64, error) {
	return s.repo.InsertFixes(fixes)
}
