package response

type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
