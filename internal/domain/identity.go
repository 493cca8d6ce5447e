package domain

type Role string

const (
	RoleClient Role = "client"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

// Identity is the signed-in principal as reported by the external
// identity provider. A nil *Identity means "signed out".
type Identity struct {
	UserID string
	Role   Role
	Email  string
}
