package auth

// SignupReq represents the signup payload
// swagger:model SignupReq
type SignupReq struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name"`
	Password    string `json:"password" validate:"required,min=6"`
	AccountType string `json:"account_type" validate:"omitempty,oneof='General User' 'Staff Member' Admin"`
}

// LoginReq represents the login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordReq struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type ForgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordReq struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
