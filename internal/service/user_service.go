package service

import (
	"context"
	"log/slog"
	"strings"

	"shiftswap/internal/middleware"
	"shiftswap/internal/models"
	"shiftswap/internal/observability"
	"shiftswap/internal/repository"
	"shiftswap/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// UserService maps Telegram identities to LDAP display identities.
type UserService struct {
	userRepo   repository.UserRepository
	invalidate Invalidator
}

// NewUserService returns a new UserService. invalidate runs after a profile
// is created or changed, since cached boards embed display identities.
func NewUserService(userRepo repository.UserRepository, invalidate Invalidator) *UserService {
	return &UserService{userRepo: userRepo, invalidate: orNoop(invalidate)}
}

// AuthInput is the identity a client presents on login.
type AuthInput struct {
	TelegramID string  `json:"telegram_id" validate:"required,max=64"`
	LDAP       string  `json:"ldap" validate:"required,max=120"`
	FirstName  string  `json:"first_name" validate:"max=120"`
	Username   *string `json:"username" validate:"omitempty,max=120"`
}

// Authenticate creates the user on first login and refreshes the profile on
// later ones. An ldap already linked to another Telegram account is a conflict.
func (s *UserService) Authenticate(ctx context.Context, in AuthInput) (user *models.User, err error) {
	in.TelegramID = strings.TrimSpace(in.TelegramID)
	in.LDAP = strings.TrimSpace(in.LDAP)
	in.FirstName = strings.TrimSpace(in.FirstName)

	span, ctx := observability.StartServiceSpan(ctx, "UserService", "Authenticate",
		attribute.String("telegram_id", in.TelegramID))
	defer span.Finish(&err)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	owner, err := s.userRepo.GetByLDAP(ctx, in.LDAP)
	switch {
	case err == nil && owner.TelegramID != in.TelegramID:
		return nil, models.NewConflictError("ldap is already linked to another account")
	case err != nil && !models.HasCode(err, models.CodeNotFound):
		return nil, err
	}

	existing, err := s.userRepo.GetByTelegramID(ctx, in.TelegramID)
	if err != nil && !models.HasCode(err, models.CodeNotFound) {
		return nil, err
	}

	if existing == nil {
		user = &models.User{
			TelegramID: in.TelegramID,
			LDAP:       in.LDAP,
			FirstName:  in.FirstName,
			Username:   in.Username,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		s.invalidate(ctx)
		middleware.Logger.InfoContext(ctx, "user registered",
			slog.String("telegram_id", user.TelegramID), slog.String("ldap", user.LDAP))
		return user, nil
	}

	existing.LDAP = in.LDAP
	existing.FirstName = in.FirstName
	existing.Username = in.Username
	if err := s.userRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return existing, nil
}

// GetByTelegramID returns the user linked to telegramID.
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID string) (*models.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// DisplayNames resolves a batch of Telegram ids. Unknown ids are absent from the result.
func (s *UserService) DisplayNames(ctx context.Context, telegramIDs []string) (map[string]models.User, error) {
	seen := make(map[string]struct{}, len(telegramIDs))
	unique := make([]string, 0, len(telegramIDs))
	for _, id := range telegramIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.userRepo.GetByTelegramIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.TelegramID] = u
	}
	return byID, nil
}
