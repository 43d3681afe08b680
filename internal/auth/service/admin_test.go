package service

import (
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/sautiyetu/sauti/internal/auth/domain"
	"github.com/sautiyetu/sauti/pkg/cryptox"
)

func (s *ServiceSuite) createAdmin(email, phone string, role domain.Role) domain.Account {
	acct, err := s.admins.Create(s.ctx, CreateAdminInput{
		Name:     "Admin " + email,
		Email:    email,
		Phone:    phone,
		Password: "correct-horse",
		Role:     string(role),
	})
	s.Require().NoError(err)
	return acct
}

func (s *ServiceSuite) TestCreateAdminValidation() {
	_, err := s.admins.Create(s.ctx, CreateAdminInput{Name: "A", Email: "nope", Phone: "0711000000", Password: "correct-horse", Role: "admin"})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.admins.Create(s.ctx, CreateAdminInput{Name: "A", Email: "a@sauti.example", Phone: "0711000000", Password: "short", Role: "admin"})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.admins.Create(s.ctx, CreateAdminInput{Name: "A", Email: "a@sauti.example", Phone: "0711000000", Password: "correct-horse", Role: "overlord"})
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.admins.Create(s.ctx, CreateAdminInput{Name: "A", Email: "a@sauti.example", Phone: "12", Password: "correct-horse", Role: "admin"})
	s.ErrorIs(err, ErrInvalidPhoneFormat)

	acct := s.createAdmin("A@Sauti.example", "0711000000", domain.RoleModerator)
	s.Equal("a@sauti.example", *acct.Email)
	s.Equal(domain.RoleModerator.DefaultPermissions(), acct.Permissions)

	_, err = s.admins.Create(s.ctx, CreateAdminInput{Name: "B", Email: "a@sauti.example", Phone: "0711000001", Password: "correct-horse", Role: "admin"})
	s.ErrorIs(err, ErrConflict)
}

func (s *ServiceSuite) TestCreateAdminWithExplicitPermissions() {
	acct, err := s.admins.Create(s.ctx, CreateAdminInput{
		Name:        "Analyst",
		Email:       "analyst@sauti.example",
		Phone:       "0711000002",
		Password:    "correct-horse",
		Role:        string(domain.RoleAnalyst),
		Permissions: []string{"analytics.view"},
	})
	s.Require().NoError(err)
	s.Equal([]domain.Permission{domain.PermAnalyticsView}, acct.Permissions)
}

func (s *ServiceSuite) TestAdminLogin() {
	s.createAdmin("root@sauti.example", "0711000000", domain.RoleSuperAdmin)

	_, err := s.admin.Login(s.ctx, "root@sauti.example", "wrong-password", "", "10.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.admin.Login(s.ctx, "ghost@sauti.example", "correct-horse", "", "10.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)

	res, err := s.admin.Login(s.ctx, " Root@Sauti.example ", "correct-horse", "", "10.0.0.1")
	s.Require().NoError(err)
	s.NotNil(res.Account.LastLoginAt)

	claims, err := s.tokens.Authenticate(s.ctx, res.Token.Token)
	s.Require().NoError(err)
	s.True(claims.Can(domain.AbilityAdmin))
	s.Equal(TokenNameAdmin, claims.Name)
}

func (s *ServiceSuite) TestAdminLoginUnknownEmailStillHashes() {
	var hashes []string
	orig := verifyPassword
	verifyPassword = func(password, hash string) error {
		hashes = append(hashes, hash)
		return orig(password, hash)
	}
	defer func() { verifyPassword = orig }()

	_, err := s.admin.Login(s.ctx, "ghost@sauti.example", "correct-horse", "", "10.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)

	dummy, err := dummyPasswordHash()
	s.Require().NoError(err)
	s.Equal([]string{dummy}, hashes)
	s.ErrorIs(orig("correct-horse", dummy), cryptox.ErrPasswordMismatch)

	// A citizen found by email goes through the same check.
	acct := s.login()
	email := "citizen@sauti.example"
	acct.Email = &email
	s.Require().NoError(s.store.Accounts().UpdateAccount(s.ctx, acct))

	hashes = nil
	_, err = s.admin.Login(s.ctx, email, "correct-horse", "", "10.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)
	s.Equal([]string{dummy}, hashes)
}

func (s *ServiceSuite) TestAdminLoginRejectsCitizen() {
	s.login()
	_, err := s.admin.Login(s.ctx, "", "anything", "", "10.0.0.1")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestAdminLoginSuspended() {
	acct := s.createAdmin("mod@sauti.example", "0711000000", domain.RoleModerator)
	acct.IsSuspended = true
	s.Require().NoError(s.store.Accounts().UpdateAccount(s.ctx, acct))

	_, err := s.admin.Login(s.ctx, "mod@sauti.example", "correct-horse", "", "10.0.0.1")
	s.ErrorIs(err, ErrAccountSuspended)
}

func (s *ServiceSuite) TestTOTPFlow() {
	acct := s.createAdmin("root@sauti.example", "0711000000", domain.RoleSuperAdmin)

	s.ErrorIs(s.mfa.ConfirmTOTP(s.ctx, acct.ID, "123456"), ErrMFANotEnrolled)

	enrollment, err := s.mfa.EnrollTOTP(s.ctx, acct.ID)
	s.Require().NoError(err)
	s.Equal("root@sauti.example", enrollment.Account)
	s.Contains(enrollment.URL, "otpauth://totp/")

	s.ErrorIs(s.mfa.ConfirmTOTP(s.ctx, acct.ID, "000000"), ErrInvalidTOTPCode)

	code, err := totp.GenerateCode(enrollment.Secret, s.clock.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.mfa.ConfirmTOTP(s.ctx, acct.ID, code))

	_, err = s.mfa.EnrollTOTP(s.ctx, acct.ID)
	s.ErrorIs(err, ErrMFAAlreadyEnabled)

	_, err = s.admin.Login(s.ctx, "root@sauti.example", "correct-horse", "", "10.0.0.1")
	s.ErrorIs(err, ErrMFARequired)

	_, err = s.admin.Login(s.ctx, "root@sauti.example", "correct-horse", "000000", "10.0.0.1")
	s.ErrorIs(err, ErrInvalidTOTPCode)

	_, err = s.admin.Login(s.ctx, "root@sauti.example", "correct-horse", code, "10.0.0.1")
	s.Require().NoError(err)

	s.Require().NoError(s.mfa.DisableTOTP(s.ctx, acct.ID, code))
	s.ErrorIs(s.mfa.DisableTOTP(s.ctx, acct.ID, code), ErrMFANotEnabled)
}

func (s *ServiceSuite) TestChangePasswordRevokesOtherSessions() {
	s.createAdmin("root@sauti.example", "0711000000", domain.RoleSuperAdmin)

	first, err := s.admin.Login(s.ctx, "root@sauti.example", "correct-horse", "", "10.0.0.1")
	s.Require().NoError(err)
	second, err := s.admin.Login(s.ctx, "root@sauti.example", "correct-horse", "", "10.0.0.1")
	s.Require().NoError(err)

	err = s.admin.ChangePassword(s.ctx, first.Account.ID, "wrong", "battery-staple", first.Token.TokenID)
	s.ErrorIs(err, ErrInvalidCredentials)

	err = s.admin.ChangePassword(s.ctx, first.Account.ID, "correct-horse", "short", first.Token.TokenID)
	s.ErrorIs(err, ErrInvalidRequest)

	s.Require().NoError(s.admin.ChangePassword(s.ctx, first.Account.ID, "correct-horse", "battery-staple", first.Token.TokenID))

	_, err = s.tokens.Authenticate(s.ctx, first.Token.Token)
	s.NoError(err)
	_, err = s.tokens.Authenticate(s.ctx, second.Token.Token)
	s.ErrorIs(err, ErrInvalidToken)

	_, err = s.admin.Login(s.ctx, "root@sauti.example", "battery-staple", "", "10.0.0.1")
	s.NoError(err)
}

func (s *ServiceSuite) TestLastSuperAdminProtection() {
	root := s.createAdmin("root@sauti.example", "0711000000", domain.RoleSuperAdmin)
	mod := s.createAdmin("mod@sauti.example", "0711000001", domain.RoleModerator)

	s.ErrorIs(s.admins.Delete(s.ctx, mod.ID, root.ID), ErrLastSuperAdmin)
	s.ErrorIs(s.admins.Delete(s.ctx, root.ID, root.ID), ErrCannotDeleteSelf)

	demote := string(domain.RoleAdmin)
	_, err := s.admins.Update(s.ctx, root.ID, UpdateAdminInput{Role: &demote})
	s.ErrorIs(err, ErrLastSuperAdmin)

	second := s.createAdmin("root2@sauti.example", "0711000002", domain.RoleSuperAdmin)
	s.Require().NoError(s.admins.Delete(s.ctx, second.ID, root.ID))

	_, err = s.admins.Get(s.ctx, root.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestDeleteRejectsCitizen() {
	root := s.createAdmin("root@sauti.example", "0711000000", domain.RoleSuperAdmin)
	citizen := s.login()
	s.ErrorIs(s.admins.Delete(s.ctx, root.ID, citizen.ID), ErrNotAdmin)
}

func (s *ServiceSuite) TestUpdateAdminRoleThenPermissions() {
	mod := s.createAdmin("mod@sauti.example", "0711000001", domain.RoleModerator)

	role := string(domain.RoleContentManager)
	name := "Content Lead"
	got, err := s.admins.Update(s.ctx, mod.ID, UpdateAdminInput{Name: &name, Role: &role})
	s.Require().NoError(err)
	s.Equal(domain.RoleContentManager.DefaultPermissions(), got.Permissions)
	s.Equal("Content Lead", got.Name)

	got, err = s.admins.Update(s.ctx, mod.ID, UpdateAdminInput{Role: &role, Permissions: []string{"posts.view", "posts.view", "posts.restore"}})
	s.Require().NoError(err)
	s.Equal([]domain.Permission{domain.PermPostsView, domain.PermPostsRestore}, got.Permissions)

	_, err = s.admins.Update(s.ctx, mod.ID, UpdateAdminInput{Permissions: []string{"posts.fly"}})
	s.ErrorIs(err, ErrInvalidRequest)

	admins, err := s.admins.List(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(admins, 1)
}

func (s *ServiceSuite) TestSuspendAndActivate() {
	root := s.createAdmin("root@sauti.example", "0711000000", domain.RoleSuperAdmin)

	code := s.requestCode("0712345678")
	res, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)

	past := s.clock.now.Add(-time.Minute)
	_, err = s.admins.Suspend(s.ctx, root.ID, res.Account.ID, &past)
	s.ErrorIs(err, ErrInvalidRequest)

	_, err = s.admins.Suspend(s.ctx, root.ID, root.ID, nil)
	s.ErrorIs(err, ErrCannotSuspendSelf)

	suspended, err := s.admins.Suspend(s.ctx, root.ID, res.Account.ID, nil)
	s.Require().NoError(err)
	s.True(suspended.IsSuspended)

	_, err = s.tokens.Authenticate(s.ctx, res.Token.Token)
	s.ErrorIs(err, ErrInvalidToken)

	active, err := s.admins.Activate(s.ctx, res.Account.ID)
	s.Require().NoError(err)
	s.False(active.IsSuspended)

	_, err = s.admins.Activate(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceSuite) TestBootstrapSuperAdmin() {
	b := &BootstrapService{Store: s.store, Admins: s.admins}

	created, err := b.EnsureSuperAdmin(s.ctx)
	s.Require().NoError(err)
	s.False(created)

	b.Email = "root@sauti.example"
	b.Password = "correct-horse"
	_, err = b.EnsureSuperAdmin(s.ctx)
	s.ErrorIs(err, ErrBootstrapIncomplete)

	b.Phone = "0711000000"
	created, err = b.EnsureSuperAdmin(s.ctx)
	s.Require().NoError(err)
	s.True(created)

	created, err = b.EnsureSuperAdmin(s.ctx)
	s.Require().NoError(err)
	s.False(created)
}

func (s *ServiceSuite) TestHousekeepingRunOnce() {
	code := s.requestCode("0712345678")
	res, err := s.phone.Login(s.ctx, "0712345678", code)
	s.Require().NoError(err)

	// A window left open by a rejected login attempt elsewhere.
	_, _, err = s.store.RateLimits().HitRateLimit(s.ctx, "rate_limit:login:254700000000", s.clock.Now().Add(time.Hour), s.clock.Now())
	s.Require().NoError(err)

	hk := NewHousekeepingService(s.store, s.otp, s.tokens, discardLogger(), time.Minute)
	hk.Now = s.clock.Now

	// The consumed OTP goes; the live token and the open window stay.
	s.EqualValues(1, hk.RunOnce(s.ctx))
	_, err = s.tokens.Authenticate(s.ctx, res.Token.Token)
	s.NoError(err)

	// Expiry is judged by the services' own clocks.
	s.clock.Advance(31 * 24 * time.Hour)
	s.EqualValues(2, hk.RunOnce(s.ctx))
	_, err = s.tokens.Authenticate(s.ctx, res.Token.Token)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *ServiceSuite) TestRolesAndPermissions() {
	roles, groups := s.admins.RolesAndPermissions()
	s.Len(roles, 5)
	s.Equal(domain.RoleSuperAdmin, roles[0])
	s.Equal("users", groups[0].Category)
}
