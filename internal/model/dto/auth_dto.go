package dto

// ========== Auth 相关 DTO ==========

// ExchangeRequest 身份兑换请求：外部身份提供方校验后的 subject 换本站 token
type ExchangeRequest struct {
	AuthSubject string `json:"auth_subject" vd:"len($)>0 && len($)<129"`
	Nickname    string `json:"nickname"`
}

// TokenPairData token 对响应
type TokenPairData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	IsNewUser    bool   `json:"is_new_user"`
}

// RefreshTokenRequest 刷新 token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" vd:"len($)>0"`
}
