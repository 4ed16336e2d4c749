package service

import (
	"fmt"

	"github.com/noah-isme/idea-observation-api/internal/models"
	appErrors "github.com/noah-isme/idea-observation-api/pkg/errors"
)

// allowedTransitions is the forward-only status table. Self-transitions on completed and
// reviewed cover re-stopping and re-saving a report.
var allowedTransitions = map[string]map[string]bool{
	models.ObservationStatusDraft: {
		models.ObservationStatusCompleted: true,
	},
	models.ObservationStatusCompleted: {
		models.ObservationStatusCompleted: true,
		models.ObservationStatusReviewed:  true,
	},
	models.ObservationStatusReviewed: {
		models.ObservationStatusReviewed: true,
	},
}

func checkTransition(from, to string) error {
	if allowedTransitions[from][to] {
		return nil
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move observation from %s to %s", from, to))
}

func requireStatus(obs *models.Observation, status, action string) error {
	if obs.Status == status {
		return nil
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot %s while observation is %s", action, obs.Status))
}
