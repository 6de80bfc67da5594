package service

import (
	"context"

	"github.com/dom/xwing-campaign/internal/domain"
	"github.com/dom/xwing-campaign/internal/repository"
)

type UserService struct {
	userRepo  repository.UserRepository
	auth      *AuthService
	adminUser string
}

func NewUserService(userRepo repository.UserRepository, auth *AuthService, adminUser string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		auth:      auth,
		adminUser: adminUser,
	}
}

type PutUserInput struct {
	Name        string
	DisplayName string
	Password    string
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.Select(ctx, nil, "name", "display_name")
}

func (s *UserService) Get(ctx context.Context, name string) (*domain.User, error) {
	user, err := s.userRepo.FindOne(ctx, repository.Filter{"name": name})
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NotFound("Unknown user %s", name)
		}
		return nil, err
	}
	return user, nil
}

// Put creates the named user or updates its display name and password.
func (s *UserService) Put(ctx context.Context, caller *domain.User, input PutUserInput) (*domain.User, error) {
	if err := s.requireAdmin(caller); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindOne(ctx, repository.Filter{"name": input.Name})
	switch {
	case domain.IsKind(err, domain.KindNotFound):
		user = &domain.User{Name: input.Name, DisplayName: input.DisplayName}
		if input.Password == "" {
			return nil, domain.Invalid("Password must be set")
		}
	case err != nil:
		return nil, err
	case input.DisplayName != "":
		user.DisplayName = input.DisplayName
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if input.Password != "" {
		if _, err := s.auth.SetPassword(user, input.Password); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.Put(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, caller *domain.User, name string) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	user, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, user.ID, user.Version)
}

func (s *UserService) requireAdmin(caller *domain.User) error {
	if caller == nil || caller.Name != s.adminUser {
		return domain.Forbidden("Only %s may manage users", s.adminUser)
	}
	return nil
}
