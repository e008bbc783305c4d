package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/hertz/pkg/app"

	"PostPilot/internal/middleware"
	"PostPilot/internal/model/dto"
	"PostPilot/internal/service"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/response"
	"PostPilot/utils"
)

// GetOnboardingState 获取向导当前状态，前端据此恢复会话
// GET /v1/onboarding/state
func GetOnboardingState(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	result, err := service.Wizard().GetState(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SubmitAccountType 第一步：账号类型
// POST /v1/onboarding/account-type
func SubmitAccountType(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.SubmitAccountTypeRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Wizard().SubmitAccountType(ctx, userID, req.AccountType)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SubmitStyle 第二步：文风来源
// POST /v1/onboarding/style
func SubmitStyle(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.SubmitStyleRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Wizard().SubmitStyle(ctx, userID, req.StyleChoice)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// UploadCV 第三步：上传简历（multipart）。跳过必须显式传 skip=true，
// 表单解析失败不能当成跳过
// POST /v1/onboarding/cv
func UploadCV(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if c.PostForm("skip") == "true" {
			result, err := service.Intake().SkipCV(ctx, userID)
			if err != nil {
				response.Error(ctx, c, err)
				return
			}
			response.Success(ctx, c, result)
			return
		}
		response.Error(ctx, c, errors.CVFileMissing)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(ctx, c, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(ctx, c, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	// MIME 以内容嗅探为准，不信 Content-Type 头
	mimeType := utils.DetectMimeType(data)

	result, err := service.Intake().StageCV(ctx, userID, fileHeader.Filename, mimeType, data)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SetSamplePosts 第四步：手动录入样本帖子
// POST /v1/onboarding/posts
func SetSamplePosts(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.SetSamplePostsRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Intake().SetSamplePosts(ctx, userID, req.Posts)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// SavePostsDraft 第四步草稿自动保存，只写编辑缓冲不落库
// PUT /v1/onboarding/posts/draft
func SavePostsDraft(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.SetSamplePostsRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	if err := service.Intake().SavePostsDraft(ctx, userID, req.Posts); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"saved": true,
	})
}

// BeginPostsImport 发起外部导入，返回回调用的批次号
// POST /v1/onboarding/posts/import
func BeginPostsImport(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	batchID, err := service.Intake().BeginImport(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"batch_id": batchID,
	})
}

// PostsImportCallback 外部导入回调，只填空槽
// POST /v1/onboarding/posts/import-callback
func PostsImportCallback(ctx context.Context, c *app.RequestContext) {
	var req dto.ImportPostsCallbackRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Intake().ImportCallback(ctx, req.BatchID, req.Posts)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// ProcessProfile 第四步提交：触发画像合成流水线
// POST /v1/onboarding/process
func ProcessProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	result, err := service.Processing().Process(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// StepBack 后退一步
// POST /v1/onboarding/back
func StepBack(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	result, err := service.Wizard().StepBack(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// UpdatePreferences 第五步：保存偏好
// PUT /v1/onboarding/preferences
func UpdatePreferences(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	var req dto.UpdatePreferencesRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Wizard().UpdatePreferences(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// CompleteOnboarding 终结向导
// POST /v1/onboarding/complete
func CompleteOnboarding(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, fmt.Errorf("user ID not found in context"))
		return
	}

	result, err := service.Wizard().CompleteSetup(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
