package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"

	"PostPilot/pkg/errors"
)

// ErrorResponse 统一的错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details map[string]interface{} `json:"details,omitempty"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
}

// SuccessResponse 统一的成功响应格式
type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(err error) int {
	def, ok := err.(errors.Definition)
	if !ok {
		return http.StatusInternalServerError
	}

	// 根据错误码映射 HTTP 状态码
	switch def.Code {
	case "ACCOUNT_TYPE_UNSUPPORTED", "ACCOUNT_TYPE_INVALID", "STYLE_CHOICE_INVALID",
		"CV_FILE_TOO_LARGE", "CV_MIME_UNSUPPORTED", "CV_FILE_MISSING",
		"SAMPLE_POST_REQUIRED", "SAMPLE_POSTS_LIMIT", "SAMPLE_POST_EMPTY",
		"FIELD_KIND_MISMATCH", "FIELD_UNKNOWN", "LIST_INDEX_OUT_OF_RANGE",
		"ALTERNATIVE_INDEX_INVALID", "ADDITIONAL_CONTEXT_TOO_LONG",
		"HASHTAG_COUNT_INVALID", "POST_TYPE_INVALID",
		"STEP_ORDER_VIOLATION", "BACK_FROM_FIRST_STEP", "INVALID_REQUEST":
		return http.StatusBadRequest // 400
	case "UNAUTHORIZED", "AUTH_SUBJECT_INVALID":
		return http.StatusUnauthorized // 401
	case "WIZARD_ALREADY_COMPLETED", "PROFILE_NOT_READY":
		return http.StatusConflict // 409
	case "USER_NOT_FOUND":
		return http.StatusNotFound // 404
	case "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error 返回错误响应
func Error(ctx context.Context, c *app.RequestContext, err error) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	var details map[string]interface{}

	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		// 门禁类失败透传服务端的具体信息
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ErrorWithDetails(ctx context.Context, c *app.RequestContext, err error, details map[string]interface{}) {
	statusCode := errorToHTTPStatus(err)

	var code, message string
	if def, ok := err.(errors.Definition); ok {
		code = def.Code
		message = def.Message
	} else {
		code = "INTERNAL_ERROR"
		message = err.Error()
	}

	c.JSON(statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func Success(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
	})
}

func SuccessWithMeta(ctx context.Context, c *app.RequestContext, data interface{}, meta map[string]interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func BindError(ctx context.Context, c *app.RequestContext, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "INVALID_REQUEST",
			Message: err.Error(),
		},
	})
}

// NoContent 返回 204 No Content（用于 DELETE 等操作）
func NoContent(ctx context.Context, c *app.RequestContext) {
	c.Status(http.StatusNoContent)
}
