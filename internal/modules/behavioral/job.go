package behavioral

import (
	"github.com/rs/zerolog"
)

// RefreshJob recomputes behavioral scores for every active user. Registered
// with the scheduler to run nightly.
type RefreshJob struct {
	service *Service
	log     zerolog.Logger
}

// NewRefreshJob creates a new score refresh job
func NewRefreshJob(service *Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		log:     log.With().Str("job", "behavioral_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "behavioral_refresh"
}

// Run refreshes scores for all active users. A failure for one user does not
// stop the others.
func (j *RefreshJob) Run() error {
	users, err := j.service.scores.ListActiveUsers()
	if err != nil {
		return err
	}

	refreshed := 0
	for _, userID := range users {
		if _, err := j.service.Score(userID); err != nil {
			j.log.Warn().
				Str("user_id", userID).
				Err(err).
				Msg("Score refresh failed for user")
			continue
		}
		refreshed++
	}

	j.log.Info().
		Int("users", len(users)).
		Int("refreshed", refreshed).
		Msg("Behavioral score refresh completed")

	return nil
}
