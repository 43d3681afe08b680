package domain

import (
	"fmt"
	"strings"
)

// Permission is a dotted capability name such as "users.view".
type Permission string

const (
	PermUsersView    Permission = "users.view"
	PermUsersCreate  Permission = "users.create"
	PermUsersEdit    Permission = "users.edit"
	PermUsersDelete  Permission = "users.delete"
	PermUsersSuspend Permission = "users.suspend"

	PermPostsView    Permission = "posts.view"
	PermPostsCreate  Permission = "posts.create"
	PermPostsEdit    Permission = "posts.edit"
	PermPostsDelete  Permission = "posts.delete"
	PermPostsRestore Permission = "posts.restore"

	PermModerationView   Permission = "moderation.view"
	PermModerationReview Permission = "moderation.review"
	PermModerationAction Permission = "moderation.action"

	PermAnalyticsView   Permission = "analytics.view"
	PermAnalyticsExport Permission = "analytics.export"

	PermSettingsView Permission = "settings.view"
	PermSettingsEdit Permission = "settings.edit"

	PermAdminsView   Permission = "admins.view"
	PermAdminsCreate Permission = "admins.create"
	PermAdminsEdit   Permission = "admins.edit"
	PermAdminsDelete Permission = "admins.delete"
)

var allPermissions = []Permission{
	PermUsersView, PermUsersCreate, PermUsersEdit, PermUsersDelete, PermUsersSuspend,
	PermPostsView, PermPostsCreate, PermPostsEdit, PermPostsDelete, PermPostsRestore,
	PermModerationView, PermModerationReview, PermModerationAction,
	PermAnalyticsView, PermAnalyticsExport,
	PermSettingsView, PermSettingsEdit,
	PermAdminsView, PermAdminsCreate, PermAdminsEdit, PermAdminsDelete,
}

// Permissions lists every known permission in declaration order.
func Permissions() []Permission { return append([]Permission(nil), allPermissions...) }

func (p Permission) String() string { return string(p) }

func (p Permission) Valid() bool {
	for _, q := range allPermissions {
		if q == p {
			return true
		}
	}
	return false
}

// Category is the part before the first dot.
func (p Permission) Category() string {
	cat, _, _ := strings.Cut(string(p), ".")
	return cat
}

// Label renders "users.view" as "Users View".
func (p Permission) Label() string {
	words := strings.Split(string(p), ".")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ParsePermissions validates raw names, rejecting unknown ones.
func ParsePermissions(raw []string) ([]Permission, error) {
	out := make([]Permission, 0, len(raw))
	for _, s := range raw {
		p := Permission(s)
		if !p.Valid() {
			return nil, fmt.Errorf("domain: unknown permission %q", s)
		}
		out = append(out, p)
	}
	return out, nil
}

// PermissionGroup is one category of permissions for display.
type PermissionGroup struct {
	Category    string
	Permissions []Permission
}

// GroupedPermissions groups every permission by category, categories in
// first-seen order.
func GroupedPermissions() []PermissionGroup {
	var groups []PermissionGroup
	index := map[string]int{}
	for _, p := range allPermissions {
		cat := p.Category()
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, PermissionGroup{Category: cat})
		}
		groups[i].Permissions = append(groups[i].Permissions, p)
	}
	return groups
}
