package service

import (
	"context"
	"fmt"

	"sigrap/internal/apperr"
	"sigrap/internal/authz"
	"sigrap/internal/model"
	"sigrap/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	PermissionIDs []string `json:"permission_ids"`
}

type UpdateRoleRequest struct {
	Description   string    `json:"description"`
	PermissionIDs *[]string `json:"permission_ids"`
}

type PermissionResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	IsSystem    bool                 `json:"is_system"`
	Permissions []PermissionResponse `json:"permissions"`
}

// RoleService manages roles and their permission assignments. The built-in
// ADMINISTRATOR and EMPLOYEE roles are seeded from the authorization policy at
// startup and cannot be renamed or deleted.
type RoleService interface {
	SeedDefaults(ctx context.Context) error
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	ListPermissions(ctx context.Context) ([]PermissionResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string) error
}

type roleService struct {
	repo      repository.RoleRepository
	policy    *authz.Policy
	txManager repository.TransactionManager
	logger    *zap.Logger
}

// NewRoleService returns a new instance of RoleService
func NewRoleService(repo repository.RoleRepository, policy *authz.Policy, txManager repository.TransactionManager, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, policy: policy, txManager: txManager, logger: logger}
}

func mapToPermissionResponse(perm *model.Permission) PermissionResponse {
	return PermissionResponse{
		ID:       perm.ID.String(),
		Code:     perm.Code,
		Name:     perm.Name,
		Resource: perm.Resource,
		Action:   perm.Action,
	}
}

func mapToRoleResponse(role *model.Role) *RoleResponse {
	perms := make([]PermissionResponse, 0, len(role.Permissions))
	for i := range role.Permissions {
		perms = append(perms, mapToPermissionResponse(&role.Permissions[i]))
	}
	return &RoleResponse{
		ID:          role.ID.String(),
		Name:        role.Name,
		Description: role.Description,
		IsSystem:    role.IsSystem,
		Permissions: perms,
	}
}

// SeedDefaults materializes the policy table into role and permission rows so
// the admin UI can display what each built-in role may do. Safe to run on
// every startup.
func (s *roleService) SeedDefaults(ctx context.Context) error {
	seeds := []struct {
		name        string
		description string
	}{
		{model.RoleAdministrator, "Full access to every resource"},
		{model.RoleEmployee, "Read everything; manage products, categories and customers"},
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		for _, seed := range seeds {
			role, err := s.repo.FindByName(txCtx, seed.name)
			if err != nil {
				role = &model.Role{
					Name:        seed.name,
					Description: seed.description,
					IsSystem:    true,
				}
				if err := s.repo.Create(txCtx, role); err != nil {
					return err
				}
				s.logger.Info("seeded system role", zap.String("role", seed.name))
			}

			grants := s.policy.GrantsFor(seed.name)
			permIDs := make([]uuid.UUID, 0, len(grants))
			for _, g := range grants {
				perm := &model.Permission{
					Code:     fmt.Sprintf("%s.%s", g.Resource, g.Action),
					Name:     fmt.Sprintf("%s %s", g.Action, g.Resource),
					Resource: string(g.Resource),
					Action:   string(g.Action),
				}
				if err := s.repo.FindOrCreatePermission(txCtx, perm); err != nil {
					return err
				}
				permIDs = append(permIDs, perm.ID)
			}

			if err := s.repo.ReplacePermissions(txCtx, role.ID, permIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, apperr.Validation("role name already exists")
	}

	permIDs, err := parsePermissionIDs(req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := &model.Role{Name: req.Name, Description: req.Description}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, role); err != nil {
			return err
		}
		if len(permIDs) > 0 {
			return s.repo.AssociatePermissions(txCtx, role.ID, permIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, role.ID.String())
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid role id")
	}
	role, err := s.repo.FindByIDWithPermissions(ctx, roleID)
	if err != nil {
		return nil, apperr.NotFound("role not found")
	}
	return mapToRoleResponse(role), nil
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		responses = append(responses, *mapToRoleResponse(&roles[i]))
	}
	return responses, nil
}

func (s *roleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		responses = append(responses, mapToPermissionResponse(&perms[i]))
	}
	return responses, nil
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid role id")
	}
	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return nil, apperr.NotFound("role not found")
	}
	if role.IsSystem && req.PermissionIDs != nil {
		return nil, apperr.Validation("system role permissions are managed by the server")
	}

	if req.Description != "" {
		role.Description = req.Description
	}

	var permIDs []uuid.UUID
	if req.PermissionIDs != nil {
		permIDs, err = parsePermissionIDs(*req.PermissionIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, role); err != nil {
			return err
		}
		if req.PermissionIDs != nil {
			return s.repo.ReplacePermissions(txCtx, role.ID, permIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRole(ctx, id)
}

func (s *roleService) DeleteRole(ctx context.Context, id string) error {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid role id")
	}
	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return apperr.NotFound("role not found")
	}
	if role.IsSystem {
		return apperr.Validation("system roles cannot be deleted")
	}

	count, err := s.repo.CountUsersWithRole(ctx, roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("role is assigned to users")
	}

	return s.repo.Delete(ctx, roleID)
}

func parsePermissionIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, apperr.Validationf("invalid permission id %q", v)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
