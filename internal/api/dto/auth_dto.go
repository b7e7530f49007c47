package dto

// LoginRequest payload for both login variants.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// ForgotPasswordRequest starts password recovery. EmployeeID is required
// for employee accounts and ignored for admins.
type ForgotPasswordRequest struct {
	Email      string `json:"email" validate:"required,email"`
	EmployeeID string `json:"employee_id"`
}

// ResetPasswordRequest finishes password recovery.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// ChangePasswordRequest payload for logged-in password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// UpdateProfileRequest payload; empty fields keep their stored value.
type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Department      string `json:"department"`
	Position        string `json:"position"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
