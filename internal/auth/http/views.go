package http

import (
	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/internal/auth/service"
	"github.com/sautiyetu/sauti/pkg/authsdk"
)

func accountInfo(a domain.Account) authsdk.AccountInfo {
	info := authsdk.AccountInfo{
		ID:                   a.ID,
		PhoneNumber:          a.PhoneNumber,
		Name:                 a.Name,
		WardID:               a.WardID,
		IsAdmin:              a.IsAdmin,
		IsSuspended:          a.IsSuspended,
		SuspendedUntil:       a.SuspendedUntil,
		MFAEnabled:           a.MFAEnabled(),
		RegistrationComplete: a.IsRegistrationComplete(),
		LastLoginAt:          a.LastLoginAt,
		CreatedAt:            a.CreatedAt,
	}
	if a.Email != nil {
		info.Email = *a.Email
	}
	if a.IsAdmin && a.AdminRole != nil {
		info.AdminRole = string(*a.AdminRole)
		info.AdminRoleLabel = a.AdminRole.Label()
		info.Permissions = make([]string, 0, len(a.Permissions))
		for _, p := range a.Permissions {
			info.Permissions = append(info.Permissions, string(p))
		}
	}
	return info
}

func loginResponse(res service.LoginResult) authsdk.LoginResponse {
	return authsdk.LoginResponse{
		Token:     res.Token.Token,
		TokenType: "Bearer",
		ExpiresAt: res.Token.ExpiresAt,
		Account:   accountInfo(res.Account),
		IsNewUser: res.IsNewUser,
	}
}
