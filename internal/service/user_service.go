// Package service contains the orchestration layer binding validation,
// authorization policy, and the repositories.
package service

import (
	"context"

	"fizikblog/internal/models"
	"fizikblog/internal/policy"
	"fizikblog/internal/repository"
	"fizikblog/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UpdateUserInput struct {
	CallerID        uint
	CallerIsAdmin   bool
	TargetID        uint
	Username        string
	Email           string
	Password        string
	ProfileImageURL string
}

type DeleteUserInput struct {
	CallerID      uint
	CallerIsAdmin bool
	TargetID      uint
}

type ListUsersInput struct {
	CallerID      uint
	CallerIsAdmin bool
	Limit         int
	Offset        int
}

// UserPage is a page of users plus the dashboard counts.
type UserPage struct {
	Users          []models.User `json:"users"`
	TotalUsers     int64         `json:"total_users"`
	LastMonthUsers int64         `json:"last_month_users"`
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:        in.Username,
		Email:           in.Email,
		Password:        string(hashed),
		ProfileImageURL: models.DefaultProfileImageURL,
	}
	// Uniqueness is enforced by the store's unique indexes, atomic with the
	// insert; a duplicate surfaces as DuplicateIdentity from the repository.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate resolves the identifier as a username first, then an email.
// Unknown identifier and wrong password return the same error so callers
// cannot enumerate accounts.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	if identifier == "" || password == "" {
		return nil, models.NewValidationError("Identifier and password are required")
	}

	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, models.NewAuthenticationError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewAuthenticationError()
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	caller := policy.Caller{ID: in.CallerID, Authenticated: in.CallerID != 0, Admin: in.CallerIsAdmin}
	if d := policy.Authorize(caller, policy.ActionUpdateUser, in.TargetID); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.Password != "" {
		if err := validation.ValidatePassword(in.Password); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}
	if in.ProfileImageURL != "" {
		user.ProfileImageURL = in.ProfileImageURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account. Posts and comments authored by the user
// are deliberately left in place; their author label is denormalized on the
// post.
func (s *UserService) DeleteUser(ctx context.Context, in DeleteUserInput) error {
	caller := policy.Caller{ID: in.CallerID, Authenticated: in.CallerID != 0, Admin: in.CallerIsAdmin}
	if d := policy.Authorize(caller, policy.ActionDeleteUser, in.TargetID); !d.Allowed {
		return models.NewUnauthorizedError(d.Reason)
	}

	if _, err := s.userRepo.GetByID(ctx, in.TargetID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, in.TargetID)
}

func (s *UserService) ListUsers(ctx context.Context, in ListUsersInput) (*UserPage, error) {
	caller := policy.Caller{ID: in.CallerID, Authenticated: in.CallerID != 0, Admin: in.CallerIsAdmin}
	if d := policy.Authorize(caller, policy.ActionListUsers, 0); !d.Allowed {
		return nil, models.NewUnauthorizedError(d.Reason)
	}

	users, total, lastMonth, err := s.userRepo.List(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, TotalUsers: total, LastMonthUsers: lastMonth}, nil
}
