package dto

// ========== Onboarding 相关 DTO ==========

// OnboardingStateData 向导当前状态，GET /state 与各步提交后统一返回
type OnboardingStateData struct {
	CurrentStep         int      `json:"current_step"`
	AccountType         string   `json:"account_type,omitempty"`
	StyleChoice         string   `json:"style_choice,omitempty"`
	SamplePosts         []string `json:"sample_posts"`
	HasStagedCV         bool     `json:"has_staged_cv"`
	StagedCVFileName    string   `json:"staged_cv_file_name,omitempty"`
	HasProcessedProfile bool     `json:"has_processed_profile"`
	Completed           bool     `json:"completed"`
}

// SubmitAccountTypeRequest 第一步提交
type SubmitAccountTypeRequest struct {
	AccountType string `json:"account_type" vd:"len($)>0"`
}

// SubmitStyleRequest 第二步提交
type SubmitStyleRequest struct {
	StyleChoice string `json:"style_choice" vd:"len($)>0"`
}

// StageCVData 简历暂存结果
type StageCVData struct {
	AssetID  string `json:"asset_id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	SizeByte int64  `json:"size_byte"`
	Replaced bool   `json:"replaced"` // 是否替换了之前暂存的文件
}

// SetSamplePostsRequest 手动录入样本帖子，整体覆盖槽位
type SetSamplePostsRequest struct {
	Posts []string `json:"posts"`
}

// ImportPostsCallbackRequest 外部导入回调，只填空槽
type ImportPostsCallbackRequest struct {
	BatchID string   `json:"batch_id" vd:"len($)>0"`
	Posts   []string `json:"posts"`
}

// ImportPostsData 导入结果
type ImportPostsData struct {
	Placed  int      `json:"placed"`
	Dropped int      `json:"dropped"`
	Posts   []string `json:"posts"`
}

// ProcessResultData 处理提交的结果。画像生成成功时 profile 非空；
// 合成失败走兜底完成路径时 fallback_completed 为 true
type ProcessResultData struct {
	ProfileReady      bool                `json:"profile_ready"`
	FallbackCompleted bool                `json:"fallback_completed"`
	State             OnboardingStateData `json:"state"`
}

// UpdatePreferencesRequest 第五步偏好提交
type UpdatePreferencesRequest struct {
	PostTypeDistribution map[string]int `json:"post_type_distribution"`
	HashtagCount         *int           `json:"hashtag_count"`
}

// PreferencesData 偏好回显
type PreferencesData struct {
	PostTypeDistribution map[string]int `json:"post_type_distribution"`
	HashtagCount         int            `json:"hashtag_count"`
}

// CompleteData 完成引导的响应
type CompleteData struct {
	Completed   bool   `json:"completed"`
	CompletedAt string `json:"completed_at"`
}
