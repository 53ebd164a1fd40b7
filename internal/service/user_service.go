package service

import (
	"context"
	"errors"

	"github.com/confera/conference-hub/internal/model"
	"github.com/confera/conference-hub/internal/permission"
	"github.com/confera/conference-hub/internal/repository"
	"github.com/confera/conference-hub/internal/response"
	"github.com/confera/conference-hub/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserNotOwned     = errors.New("you do not have access to this user")
	ErrRoleChangeDenied = errors.New("only a super admin may change roles or active status")
	ErrOwnRoleChange    = errors.New("you cannot change your own role")
	ErrSelfDelete       = errors.New("you cannot delete your own account")
)

type UserService interface {
	GetAll(ctx context.Context, filter model.UserFilter) ([]*model.User, *response.Pagination, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.User, error)
	Update(ctx context.Context, actor Actor, id string, req model.UpdateUserRequest) (*model.UserResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetAll(ctx context.Context, filter model.UserFilter) ([]*model.User, *response.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 10
	}

	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	return users, paginate(filter.Page, filter.PerPage, total), nil
}

func (s *userService) GetByID(ctx context.Context, actor Actor, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// Own profile is always readable; anything else needs the
	// users.view permission.
	if uid != actor.ID && !permission.HasPermission(actor.Role, permission.UsersView) {
		return nil, ErrUserNotOwned
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Update applies the ownership rules from the access-control design:
// anyone may edit their own name/email; role and is_active are super
// admin territory, and nobody, super admin included, changes their own
// role.
func (s *userService) Update(ctx context.Context, actor Actor, id string, req model.UpdateUserRequest) (*model.UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	isSelf := uid == actor.ID
	if !isSelf && !permission.HasPermission(actor.Role, permission.UsersUpdate) {
		return nil, ErrUserNotOwned
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Role != nil || req.IsActive != nil {
		if !actor.IsSuperAdmin() {
			return nil, ErrRoleChangeDenied
		}
		if isSelf && req.Role != nil && *req.Role != user.Role {
			return nil, ErrOwnRoleChange
		}
		if req.Role != nil {
			if _, ok := validRoles[*req.Role]; !ok {
				return nil, ErrUnknownRole
			}
			user.Role = *req.Role
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}
	}

	if req.Name != "" {
		user.Name = utils.SanitizeString(req.Name)
	}
	if req.Email != "" {
		if !utils.IsValidEmail(req.Email) {
			return nil, errors.New("invalid email address")
		}
		user.Email = utils.NormalizeEmail(req.Email)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

// Delete always refuses self-deletion, whatever the role.
func (s *userService) Delete(ctx context.Context, actor Actor, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrUserNotFound
	}

	if uid == actor.ID {
		return ErrSelfDelete
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return s.repo.Delete(ctx, uid)
}
