package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/maxviazov/user-directory-service/internal/model"
	"github.com/maxviazov/user-directory-service/internal/repository"
	"github.com/rs/zerolog"
)

// userService holds directory use-case logic: validation + orchestration, no transport details.
type userService struct {
	repo repository.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	l := logger.With().Str("module", "service").Str("component", "user").Logger()
	return &userService{repo: repo, log: l}
}

func (s *userService) ListUsers(ctx context.Context, p model.Pagination) (model.UserPage, error) {
	if err := validatePagination(p); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Int("page", p.Page).Int("page_size", p.PageSize).Msg("pagination validation failed")
		return model.UserPage{}, err
	}
	all, err := s.repo.All(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list users failed")
		return model.UserPage{}, err
	}
	out := paginate(all, p)
	s.log.Debug().Int("page", p.Page).Int("page_size", p.PageSize).Str("search", p.Search).Int("total", out.Total).Int("returned", len(out.Data)).Msg("users listed")
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.User{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must not be empty"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *userService) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	start := time.Now()
	firstName, lastName := in.FirstName, in.LastName

	// Ids are always generated by the store; a supplied one is a client mistake.
	if in.ID != nil {
		if err := s.rejectSuppliedID(ctx, *in.ID); err != nil {
			return model.User{}, err
		}
	}

	var ferrs []FieldError
	ferrs = checkName(ferrs, "firstName", firstName)
	ferrs = checkName(ferrs, "lastName", lastName)
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("fn_raw", in.FirstName).Str("ln_raw", in.LastName).Msg("user validation failed")
		return model.User{}, err
	}

	out, err := s.repo.Create(ctx, model.User{FirstName: firstName, LastName: lastName})
	if err != nil {
		s.log.Error().Err(err).Str("fn", firstName).Str("ln", lastName).Msg("create user failed")
		return model.User{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("user_id", out.ID).Msg("user created")
	return out, nil
}

// rejectSuppliedID turns a caller-supplied id into Conflict when it collides
// with a live record and into a validation error otherwise.
func (s *userService) rejectSuppliedID(ctx context.Context, id string) error {
	_, err := s.repo.GetByID(ctx, id)
	switch {
	case err == nil:
		s.log.Debug().Str("user_id", id).Msg("create with existing id rejected")
		return repository.ErrAlreadyExists
	case errors.Is(err, repository.ErrNotFound):
		return NewInvalidInputError([]FieldError{{Field: "id", Message: "is generated by the server and must not be set"}})
	default:
		return err
	}
}

func (s *userService) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	id = strings.TrimSpace(id)
	var ferrs []FieldError
	if id == "" {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must not be empty"})
	}
	if patch.FirstName != nil {
		ferrs = checkName(ferrs, "firstName", *patch.FirstName)
	}
	if patch.LastName != nil {
		ferrs = checkName(ferrs, "lastName", *patch.LastName)
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("user_id", id).Msg("user patch validation failed")
		return model.User{}, err
	}

	out, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug().Str("user_id", id).Msg("update of unknown user")
		} else {
			s.log.Error().Err(err).Str("user_id", id).Msg("update user failed")
		}
		return model.User{}, err
	}
	s.log.Info().Str("user_id", id).Bool("noop", patch.Empty()).Msg("user updated")
	return out, nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) (bool, error) {
	removed, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", id).Msg("delete user failed")
		return false, err
	}
	s.log.Info().Str("user_id", id).Bool("removed", removed).Msg("user delete processed")
	return removed, nil
}
