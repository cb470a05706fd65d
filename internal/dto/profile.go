package dto

type UpdateProfileInfoRequest struct {
	UserID    string `json:"userId"`
	Name      string `json:"name" validate:"required,min=2"`
	MobileNum string `json:"mobileNum" validate:"omitempty,min=7,max=15"`
}

type UpdateProfileInfoResponse struct {
	FullName  string `json:"fullname"`
	MobileNum string `json:"mobileNum"`
}

type UpdateProfilePhotoResponse struct {
	Success    bool   `json:"success"`
	ProfileURL string `json:"ProfileURL"`
}
