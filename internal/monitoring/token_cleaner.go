package monitoring

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/flextrack/timetrack-be/internal/services"
)

// Tokens that expired longer ago than this are wiped from the users table.
const purgeAge = 24 * time.Hour

// TokenCleaner periodically wipes long-expired tokens from the store.
// Purging is housekeeping only; token resolution never trusts a stale
// token regardless of whether it has been purged.
type TokenCleaner struct {
	tokens   *services.TokenService
	schedule cron.Schedule
	done     chan bool
}

// NewTokenCleaner creates a cleaner running on the given cron expression.
func NewTokenCleaner(tokens *services.TokenService, cronExpr string) (*TokenCleaner, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &TokenCleaner{
		tokens:   tokens,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the cleaning loop. It blocks until Stop is called.
func (c *TokenCleaner) Run() {
	log.Info().Msg("Starting token cleaner")
	for {
		next := c.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-c.done:
			timer.Stop()
			log.Info().Msg("Stopping token cleaner")
			return
		case <-timer.C:
			c.purge()
		}
	}
}

// Stop halts the cleaning loop.
func (c *TokenCleaner) Stop() {
	c.done <- true
}

func (c *TokenCleaner) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := c.tokens.PurgeExpired(ctx, purgeAge)
	if err != nil {
		log.Error().Err(err).Msg("Token cleaner: purge failed")
		return
	}
	if n > 0 {
		log.Info().Int64("purged", n).Msg("Token cleaner: removed expired tokens")
	}
}
