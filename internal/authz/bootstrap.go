package authz

import (
	"fmt"

	"github.com/h-h0304/Commerce-Coupon/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// VIP 继承 USER 的全部权限，ADMIN 独享后台资源
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleUser,
			Policies: []Policy{
				{Object: "/user/*", Action: "*"},
				{Object: "/categories", Action: "GET"},
				{Object: "/categories/:id", Action: "GET"},
				{Object: "/products", Action: "GET"},
				{Object: "/products/:id", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleVip,
			Inherits: []string{constants.RoleUser},
		},
		{
			Role:     constants.RoleAdmin,
			Inherits: []string{constants.RoleVip},
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
