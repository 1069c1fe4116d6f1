package service

import (
	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
)

// SegmentService handles business logic for rest segments
type SegmentService struct {
	repo *repository.SegmentRepository
}

// NewSegmentService creates a new segment service
func NewSegmentService(repo *repository.SegmentRepository) *SegmentService {
	return &SegmentService{repo: repo}
}

// GetSegments retrieves rest segments with filtering and pagination
func (s *SegmentService) GetSegments(filter models.RestSegmentFilter) ([]models.RestSegment, int64, error) {
	return s.repo.GetSegments(filter)
}

// GetSegmentByID retrieves a single rest segment by ID
func (s *SegmentService) GetSegmentByID(id int64) (*models.RestSegment, error) {
	return s.repo.GetSegmentByID(id)
}
