package dto

// SignupRequest payload for new accounts. Bound from the signup form.
type SignupRequest struct {
	Email      string `json:"email" form:"email"`
	Credential string `json:"credential" form:"credential"`
	RegionCode int    `json:"region_code" form:"region_code"`
	Role       string `json:"role" form:"role"`
}

// SigninRequest payload for authentication.
type SigninRequest struct {
	Email      string `json:"email" form:"email"`
	Credential string `json:"credential" form:"credential"`
	Role       string `json:"role" form:"role"`
}
