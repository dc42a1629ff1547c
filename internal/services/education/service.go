// Package education serves the learning-module catalog and records
// completions with points and level-ups.
package education

import (
	"context"
	"fmt"

	"github.com/bobmcallan/papertrade/internal/common"
	"github.com/bobmcallan/papertrade/internal/interfaces"
	"github.com/bobmcallan/papertrade/internal/models"
)

// pointsPerModule is awarded for each first-time module completion.
const pointsPerModule = 100

// Level thresholds in learning points.
const (
	level2Points = 500
	level3Points = 1000
)

// Service implements interfaces.EducationService on top of the user store.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// ListModules returns the course catalog with the user's completion flags
// applied. A nil user yields the catalog with nothing completed.
func (s *Service) ListModules(ctx context.Context, user *models.User) ([]models.LearningModule, error) {
	modules := make([]models.LearningModule, len(catalog))
	copy(modules, catalog)
	if user != nil {
		for i := range modules {
			modules[i].Completed = user.HasCompletedModule(modules[i].ID)
		}
	}
	return modules, nil
}

// CompleteModule marks the module complete for the user, awards points, and
// applies level thresholds. Completing an already-completed module changes
// nothing and awards no points.
func (s *Service) CompleteModule(ctx context.Context, userID string, moduleID int) (*models.ModuleCompletion, error) {
	if !knownModule(moduleID) {
		return nil, fmt.Errorf("unknown learning module %d", moduleID)
	}

	user, err := s.storage.UserStore().GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	earned := 0
	if !user.HasCompletedModule(moduleID) {
		user.CompletedModules = append(user.CompletedModules, moduleID)
		user.LearningPoints += pointsPerModule
		earned = pointsPerModule

		if user.LearningPoints >= level3Points {
			user.CurrentLevel = 3
		} else if user.LearningPoints >= level2Points {
			user.CurrentLevel = 2
		}

		if err := s.storage.UserStore().UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to save completion: %w", err)
		}

		s.logger.Info().
			Str("user_id", userID).
			Int("module_id", moduleID).
			Int("total_points", user.LearningPoints).
			Int("level", user.CurrentLevel).
			Msg("Learning module completed")
	}

	return &models.ModuleCompletion{
		Message:          fmt.Sprintf("Module %d completed!", moduleID),
		PointsEarned:     earned,
		TotalPoints:      user.LearningPoints,
		CurrentLevel:     user.CurrentLevel,
		CompletedModules: user.CompletedModules,
	}, nil
}

func knownModule(id int) bool {
	for _, m := range catalog {
		if m.ID == id {
			return true
		}
	}
	return false
}
