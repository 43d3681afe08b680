package authsdk

import "time"

// MessageResponse is returned by endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Phone authentication
// ============================================================================

type RequestOTPRequest struct {
	Phone string `json:"phone" example:"0712345678"`
}

type RequestOTPResponse struct {
	Message string `json:"message" example:"OTP sent successfully"`
	// Phone is the normalised MSISDN the code was sent to.
	Phone string `json:"phone" example:"254712345678"`
	// ExpiresIn is the code lifetime in seconds.
	ExpiresIn int `json:"expires_in" example:"600"`
}

type LoginRequest struct {
	Phone string `json:"phone" example:"0712345678"`
	Code  string `json:"code" example:"123456"`
}

// LoginResponse is returned by both the OTP login and the admin login.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type" example:"Bearer"`
	ExpiresAt time.Time   `json:"expires_at"`
	Account   AccountInfo `json:"account"`
	// IsNewUser is true until the account has completed registration.
	IsNewUser bool `json:"is_new_user"`
}

type RegisterRequest struct {
	Name           string `json:"name" example:"Akinyi Odhiambo"`
	WardID         int64  `json:"ward_id" example:"1"`
	ConstituencyID *int64 `json:"constituency_id,omitempty"`
	CountyID       *int64 `json:"county_id,omitempty"`
}

type AccountResponse struct {
	Account AccountInfo `json:"account"`
}

// AccountInfo is the public view of an account.
type AccountInfo struct {
	ID                   string     `json:"id"`
	PhoneNumber          string     `json:"phone_number"`
	Name                 string     `json:"name"`
	Email                string     `json:"email,omitempty"`
	WardID               *int64     `json:"ward_id,omitempty"`
	IsAdmin              bool       `json:"is_admin"`
	AdminRole            string     `json:"admin_role,omitempty"`
	AdminRoleLabel       string     `json:"admin_role_label,omitempty"`
	Permissions          []string   `json:"permissions,omitempty"`
	IsSuspended          bool       `json:"is_suspended"`
	SuspendedUntil       *time.Time `json:"suspended_until,omitempty"`
	MFAEnabled           bool       `json:"mfa_enabled"`
	RegistrationComplete bool       `json:"registration_complete"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ============================================================================
// Admin authentication
// ============================================================================

type AdminLoginRequest struct {
	Email    string `json:"email" example:"admin@sauti.example"`
	Password string `json:"password"`
	// TOTPCode is required once TOTP has been enabled for the account.
	TOTPCode string `json:"totp_code,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type TOTPEnrollResponse struct {
	Secret  string `json:"secret" example:"JBSWY3DPEHPK3PXP"`
	QRCode  string `json:"qr_code" example:"otpauth://totp/Sauti:admin@sauti.example?secret=JBSWY3DPEHPK3PXP&issuer=Sauti"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

type TOTPCodeRequest struct {
	Code string `json:"code" example:"123456"`
}

// ============================================================================
// Admin management
// ============================================================================

type CreateAdminRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Password    string   `json:"password"`
	Role        string   `json:"role" example:"moderator"`
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateAdminRequest applies the role first (resetting permissions to the
// role defaults) and then the explicit permission list, when given.
type UpdateAdminRequest struct {
	Name        *string  `json:"name,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

type ListAdminsResponse struct {
	Admins []AccountInfo `json:"admins"`
}

type SuspendRequest struct {
	// Until is optional; omitted means suspended until activated.
	Until *time.Time `json:"until,omitempty"`
}

type RoleInfo struct {
	Value              string   `json:"value" example:"moderator"`
	Label              string   `json:"label" example:"Moderator"`
	Description        string   `json:"description"`
	DefaultPermissions []string `json:"default_permissions"`
}

type PermissionInfo struct {
	Value string `json:"value" example:"users.view"`
	Label string `json:"label" example:"Users View"`
}

type PermissionGroup struct {
	Category    string           `json:"category" example:"users"`
	Permissions []PermissionInfo `json:"permissions"`
}

type RolesPermissionsResponse struct {
	Roles       []RoleInfo        `json:"roles"`
	Permissions []PermissionGroup `json:"permissions"`
}

// ============================================================================
// Geography
// ============================================================================

type CountyInfo struct {
	ID   int64  `json:"id"`
	Code string `json:"code" example:"043"`
	Name string `json:"name" example:"Siaya"`
}

type ConstituencyInfo struct {
	ID       int64  `json:"id"`
	CountyID int64  `json:"county_id"`
	Name     string `json:"name" example:"Alego Usonga"`
}

type WardInfo struct {
	ID             int64  `json:"id"`
	ConstituencyID int64  `json:"constituency_id"`
	Name           string `json:"name" example:"Usonga"`
	Code           string `json:"code,omitempty"`
}

type ListCountiesResponse struct {
	Counties []CountyInfo `json:"counties"`
}

type ListConstituenciesResponse struct {
	Constituencies []ConstituencyInfo `json:"constituencies"`
}

type ListWardsResponse struct {
	Wards []WardInfo `json:"wards"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency as "ok" or an error string.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Redis    string `json:"redis,omitempty"`
}
