package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/NinaPoglic/boar-telemetry-go/internal/models"
	"github.com/NinaPoglic/boar-telemetry-go/internal/repository"
	"github.com/NinaPoglic/boar-telemetry-go/internal/segmentation"
)

// ProfileService handles threshold profile business logic
type ProfileService struct {
	repo *repository.ProfileRepository
}

// NewProfileService creates a new profile service
func NewProfileService(repo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfiles returns all threshold profiles
func (s *ProfileService) GetProfiles() ([]models.ThresholdProfile, error) {
	return s.repo.GetProfiles()
}

// CreateProfile validates and stores a new threshold profile
func (s *ProfileService) CreateProfile(name, description string, params models.DetectionParams, createdBy string) (*models.ThresholdProfile, error) {
	if name == "" {
		return nil, fmt.Errorf("profile name is required")
	}

	// Reject parameterizations the extractor would reject at run time.
	segParams := segmentation.Params{
		WindowSize:  params.WindowSize,
		Threshold:   params.ThresholdMeters,
		MinDuration: time.Duration(params.MinDurationSeconds) * time.Second,
		Policy:      segmentation.MissingWindowPolicy(params.MissingWindowPolicy),
	}
	if err := segParams.Validate(); err != nil {
		return nil, err
	}

	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize params: %w", err)
	}

	profile := &models.ThresholdProfile{
		Name:        name,
		Description: description,
		ParamsJSON:  string(paramsBytes),
		CreatedBy:   createdBy,
	}
	if err := s.repo.CreateProfile(profile); err != nil {
		return nil, err
	}

	return profile, nil
}
