package domain

import (
	"errors"
	"fmt"
)

// Role is an admin role. The set is closed.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleModerator      Role = "moderator"
	RoleContentManager Role = "content_manager"
	RoleAnalyst        Role = "analyst"
)

var ErrUnknownRole = errors.New("domain: unknown role")

type roleInfo struct {
	label       string
	description string
	defaults    []Permission
}

var roleOrder = []Role{RoleSuperAdmin, RoleAdmin, RoleModerator, RoleContentManager, RoleAnalyst}

var roles = map[Role]roleInfo{
	RoleSuperAdmin: {
		label:       "Super Admin",
		description: "Full system access with all permissions",
		defaults: []Permission{
			PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete, PermUsersSuspend,
			PermPostsView, PermPostsEdit, PermPostsDelete, PermPostsRestore,
			PermModerationView, PermModerationReview, PermModerationAction,
			PermAnalyticsView, PermAnalyticsExport,
			PermSettingsView, PermSettingsEdit,
			PermAdminsView, PermAdminsCreate, PermAdminsEdit, PermAdminsDelete,
		},
	},
	RoleAdmin: {
		label:       "Admin",
		description: "Manage users, posts, and moderate content",
		defaults: []Permission{
			PermUsersView, PermUsersEdit, PermUsersSuspend,
			PermPostsView, PermPostsEdit, PermPostsDelete,
			PermModerationView, PermModerationReview, PermModerationAction,
			PermAnalyticsView, PermAnalyticsExport,
		},
	},
	RoleModerator: {
		label:       "Moderator",
		description: "Review and moderate flagged content",
		defaults: []Permission{
			PermUsersView, PermPostsView, PermPostsDelete,
			PermModerationView, PermModerationReview, PermModerationAction,
		},
	},
	RoleContentManager: {
		label:       "Content Manager",
		description: "Manage posts and user content",
		defaults: []Permission{
			PermUsersView, PermPostsView, PermPostsEdit, PermPostsDelete, PermAnalyticsView,
		},
	},
	RoleAnalyst: {
		label:       "Analyst",
		description: "View analytics and generate reports",
		defaults: []Permission{
			PermUsersView, PermPostsView, PermAnalyticsView, PermAnalyticsExport,
		},
	},
}

// Roles lists every role in display order.
func Roles() []Role { return append([]Role(nil), roleOrder...) }

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	_, ok := roles[r]
	return ok
}

func (r Role) String() string      { return string(r) }
func (r Role) Label() string       { return roles[r].label }
func (r Role) Description() string { return roles[r].description }

// DefaultPermissions returns a fresh copy of the role's permission list.
func (r Role) DefaultPermissions() []Permission {
	return append([]Permission(nil), roles[r].defaults...)
}
