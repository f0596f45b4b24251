package spending

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RecomputeJob refreshes spending metrics for every user with ledger
// activity. Registered with the scheduler to run weekly.
type RecomputeJob struct {
	service *Service
	log     zerolog.Logger
}

// NewRecomputeJob creates a new spending metric recompute job
func NewRecomputeJob(service *Service, log zerolog.Logger) *RecomputeJob {
	return &RecomputeJob{
		service: service,
		log:     log.With().Str("job", "spending_recompute").Logger(),
	}
}

// Name returns the job name
func (j *RecomputeJob) Name() string {
	return "spending_recompute"
}

// Run recomputes metrics for all users with cash flows
func (j *RecomputeJob) Run() error {
	users, err := j.listUsers()
	if err != nil {
		return err
	}

	for _, userID := range users {
		if _, err := j.service.Recompute(userID); err != nil {
			j.log.Warn().
				Str("user_id", userID).
				Err(err).
				Msg("Spending recompute failed for user")
		}
	}

	j.log.Info().Int("users", len(users)).Msg("Spending metric recompute completed")
	return nil
}

func (j *RecomputeJob) listUsers() ([]string, error) {
	rows, err := j.service.repo.db.Query("SELECT DISTINCT user_id FROM cash_flows")
	if err != nil {
		return nil, fmt.Errorf("failed to list users with cash flows: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user ids: %w", err)
	}

	return users, nil
}
