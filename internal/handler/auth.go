package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"PostPilot/internal/model/dto"
	"PostPilot/internal/service"
	"PostPilot/pkg/response"
)

// Exchange 外部身份兑换本站 token
// POST /v1/auth/exchange
func Exchange(ctx context.Context, c *app.RequestContext) {
	var req dto.ExchangeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Auth().Exchange(ctx, req.AuthSubject, req.Nickname)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// RefreshToken 刷新访问令牌
// POST /v1/auth/token/refresh
func RefreshToken(ctx context.Context, c *app.RequestContext) {
	var req dto.RefreshTokenRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Auth().Refresh(ctx, req.RefreshToken)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
