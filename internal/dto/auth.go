package dto

// UserDetail is the user object returned by the authentication endpoints.
type UserDetail struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	FullName  string `json:"fullname"`
	Email     string `json:"email"`
	MobileNum string `json:"MobileNum"`
	Gender    string `json:"gender"`
	AvatarURL string `json:"profile"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	FullName string `json:"fullname" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=6"`
	Gender   string `json:"gender" validate:"required,oneof=male female other"`
}

type VerifyOTPRequest struct {
	Email    string `json:"email" validate:"required,email"`
	OTP      string `json:"otp" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token  string     `json:"token"`
	Detail UserDetail `json:"detail"`
}

type VerifyTokenResponse struct {
	UserData UserDetail `json:"userdata"`
}
