package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/confera/conference-hub/internal/model"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) FindAll(ctx context.Context, filter model.UserFilter) ([]*model.User, int64, error) {
	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func TestUserUpdateRules(t *testing.T) {
	ctx := context.Background()

	admin := &model.User{ID: uuid.New(), Name: "Admin", Email: "admin@confhub.local", Role: model.RoleSuperAdmin, IsActive: true}
	manager := &model.User{ID: uuid.New(), Name: "Manager", Email: "manager@confhub.local", Role: model.RoleEventManager, IsActive: true}

	adminActor := Actor{ID: admin.ID, Email: admin.Email, Role: admin.Role}
	managerActor := Actor{ID: manager.ID, Email: manager.Email, Role: manager.Role}

	t.Run("SelfEditOfNameAllowed", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(admin, manager))
		resp, err := svc.Update(ctx, managerActor, manager.ID.String(), model.UpdateUserRequest{Name: "New Name"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Name != "New Name" {
			t.Errorf("expected updated name, got %q", resp.Name)
		}
	})

	t.Run("NonAdminCannotChangeOwnRole", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(admin, manager))
		role := model.RoleSuperAdmin
		_, err := svc.Update(ctx, managerActor, manager.ID.String(), model.UpdateUserRequest{Role: &role})
		if !errors.Is(err, ErrRoleChangeDenied) {
			t.Errorf("expected ErrRoleChangeDenied, got %v", err)
		}
	})

	t.Run("AdminCannotChangeOwnRole", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(admin, manager))
		role := model.RoleAttendee
		_, err := svc.Update(ctx, adminActor, admin.ID.String(), model.UpdateUserRequest{Role: &role})
		if !errors.Is(err, ErrOwnRoleChange) {
			t.Errorf("expected ErrOwnRoleChange, got %v", err)
		}
	})

	t.Run("AdminChangesAnotherUsersRole", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(admin, manager))
		role := model.RoleRegistrationManager
		resp, err := svc.Update(ctx, adminActor, manager.ID.String(), model.UpdateUserRequest{Role: &role})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Role != role {
			t.Errorf("expected role %s, got %s", role, resp.Role)
		}
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(admin, manager))
		role := model.Role("warlord")
		_, err := svc.Update(ctx, adminActor, manager.ID.String(), model.UpdateUserRequest{Role: &role})
		if !errors.Is(err, ErrUnknownRole) {
			t.Errorf("expected ErrUnknownRole, got %v", err)
		}
	})
}

func TestUserDeleteRules(t *testing.T) {
	ctx := context.Background()

	admin := &model.User{ID: uuid.New(), Email: "admin@confhub.local", Role: model.RoleSuperAdmin}
	other := &model.User{ID: uuid.New(), Email: "other@confhub.local", Role: model.RoleAttendee}
	adminActor := Actor{ID: admin.ID, Email: admin.Email, Role: admin.Role}

	t.Run("SelfDeleteAlwaysRejected", func(t *testing.T) {
		svc := NewUserService(newFakeUserRepo(admin, other))
		if err := svc.Delete(ctx, adminActor, admin.ID.String()); !errors.Is(err, ErrSelfDelete) {
			t.Errorf("expected ErrSelfDelete, got %v", err)
		}
	})

	t.Run("AdminDeletesOtherUser", func(t *testing.T) {
		repo := newFakeUserRepo(admin, other)
		svc := NewUserService(repo)
		if err := svc.Delete(ctx, adminActor, other.ID.String()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := repo.users[other.ID]; ok {
			t.Errorf("expected the user to be removed")
		}
	})
}
