// Package seed fills a fresh directory with fake users so the table has something to page through.
package seed

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository"
)

// Users creates n fake users in repo. A zero seed picks a random one,
// any other value makes the generated names reproducible.
func Users(ctx context.Context, repo repository.UserRepository, n int, seed uint64, logger zerolog.Logger) ([]model.User, error) {
	faker := gofakeit.New(seed)
	out := make([]model.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := repo.Create(ctx, model.User{FirstName: faker.FirstName(), LastName: faker.LastName()})
		if err != nil {
			return out, fmt.Errorf("seed user %d: %w", i, err)
		}
		out = append(out, u)
	}
	logger.Info().Int("count", len(out)).Uint64("seed", seed).Msg("directory seeded")
	return out, nil
}
