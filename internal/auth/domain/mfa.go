package domain

// TOTPEnrollment is the pending TOTP secret shown to an admin once.
type TOTPEnrollment struct {
	Secret  string // base32
	URL     string // otpauth:// URL for QR rendering
	Issuer  string
	Account string
}
