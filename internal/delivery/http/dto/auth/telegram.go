package auth

type TelegramAuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type TelegramAuthResponse struct {
	Token      string  `json:"token"`
	PromoterID string  `json:"promoter_id"`
	TelegramID string  `json:"telegram_id"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Username   *string `json:"username,omitempty"`
	Role       string  `json:"role"`
}
