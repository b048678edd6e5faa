package dto

// UserIDRequest targets one account.
type UserIDRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

type UpdateRoleRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=membre admin super_admin"`
}

// UpdateProfileRequest edits the caller's own profile. The values prefill
// the final slide of new carousels.
type UpdateProfileRequest struct {
	FirstName string `json:"firstName" binding:"max=100"`
	LastName  string `json:"lastName" binding:"max=100"`
	Fonction  string `json:"fonction" binding:"max=200"`
}
