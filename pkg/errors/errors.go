package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	AuthSubjectInvalid = Definition{Code: "AUTH_SUBJECT_INVALID", Message: "Auth subject invalid"}
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID      = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	UserNotFound       = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
)

// 引导向导步骤错误。
var (
	StepOrderViolation      = Definition{Code: "STEP_ORDER_VIOLATION", Message: "Step not reachable from current position"}
	WizardAlreadyCompleted  = Definition{Code: "WIZARD_ALREADY_COMPLETED", Message: "Onboarding already completed"}
	AccountTypeUnsupported  = Definition{Code: "ACCOUNT_TYPE_UNSUPPORTED", Message: "Business accounts are not supported yet"}
	AccountTypeInvalid      = Definition{Code: "ACCOUNT_TYPE_INVALID", Message: "Account type invalid"}
	StyleChoiceInvalid      = Definition{Code: "STYLE_CHOICE_INVALID", Message: "Style choice invalid"}
	BackFromFirstStep       = Definition{Code: "BACK_FROM_FIRST_STEP", Message: "Cannot go back from the first step"}
	ProfileNotReady         = Definition{Code: "PROFILE_NOT_READY", Message: "Profile has not been synthesized yet"}
)

// 素材校验错误。
var (
	CVFileTooLarge       = Definition{Code: "CV_FILE_TOO_LARGE", Message: "CV file exceeds the 10 MiB limit"}
	CVMimeUnsupported    = Definition{Code: "CV_MIME_UNSUPPORTED", Message: "CV file type not supported"}
	CVFileMissing        = Definition{Code: "CV_FILE_MISSING", Message: "No CV file staged"}
	SamplePostRequired   = Definition{Code: "SAMPLE_POST_REQUIRED", Message: "At least one sample post is required for my_style"}
	SamplePostsLimit     = Definition{Code: "SAMPLE_POSTS_LIMIT", Message: "Sample posts exceed the slot limit"}
	SamplePostEmpty      = Definition{Code: "SAMPLE_POST_EMPTY", Message: "Sample post text is empty"}
)

// 画像编辑错误。
var (
	FieldKindMismatch        = Definition{Code: "FIELD_KIND_MISMATCH", Message: "Value does not match the field kind"}
	FieldUnknown             = Definition{Code: "FIELD_UNKNOWN", Message: "Unknown profile field"}
	ListIndexOutOfRange      = Definition{Code: "LIST_INDEX_OUT_OF_RANGE", Message: "List index out of range"}
	AlternativeIndexInvalid  = Definition{Code: "ALTERNATIVE_INDEX_INVALID", Message: "Alternative index invalid"}
	AdditionalContextTooLong = Definition{Code: "ADDITIONAL_CONTEXT_TOO_LONG", Message: "Additional context exceeds 500 characters"}
)

// 偏好与完成提交错误。
var (
	HashtagCountInvalid       = Definition{Code: "HASHTAG_COUNT_INVALID", Message: "Hashtag count must be between 0 and 10"}
	PostTypeInvalid           = Definition{Code: "POST_TYPE_INVALID", Message: "Unknown post type in distribution"}
	PreferencesSaveFailed     = Definition{Code: "PREFERENCES_SAVE_FAILED", Message: "Failed to save preferences"}
	CompletionFailed          = Definition{Code: "COMPLETION_FAILED", Message: "Failed to mark onboarding complete"}
	CVUploadFailed            = Definition{Code: "CV_UPLOAD_FAILED", Message: "Failed to upload CV"}
)

// 通用限流错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please retry later"}
)

// SkipMessageError 消费者幂等跳过，不进入重试。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return e.Reason
}

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	AuthSubjectInvalid.Code:       AuthSubjectInvalid,
	Unauthorized.Code:             Unauthorized,
	InvalidUserID.Code:            InvalidUserID,
	UserNotFound.Code:             UserNotFound,
	StepOrderViolation.Code:       StepOrderViolation,
	WizardAlreadyCompleted.Code:   WizardAlreadyCompleted,
	AccountTypeUnsupported.Code:   AccountTypeUnsupported,
	AccountTypeInvalid.Code:       AccountTypeInvalid,
	StyleChoiceInvalid.Code:       StyleChoiceInvalid,
	BackFromFirstStep.Code:        BackFromFirstStep,
	ProfileNotReady.Code:          ProfileNotReady,
	CVFileTooLarge.Code:           CVFileTooLarge,
	CVMimeUnsupported.Code:        CVMimeUnsupported,
	CVFileMissing.Code:            CVFileMissing,
	SamplePostRequired.Code:       SamplePostRequired,
	SamplePostsLimit.Code:         SamplePostsLimit,
	SamplePostEmpty.Code:          SamplePostEmpty,
	FieldKindMismatch.Code:        FieldKindMismatch,
	FieldUnknown.Code:             FieldUnknown,
	ListIndexOutOfRange.Code:      ListIndexOutOfRange,
	AlternativeIndexInvalid.Code:  AlternativeIndexInvalid,
	AdditionalContextTooLong.Code: AdditionalContextTooLong,
	HashtagCountInvalid.Code:      HashtagCountInvalid,
	PostTypeInvalid.Code:          PostTypeInvalid,
	PreferencesSaveFailed.Code:    PreferencesSaveFailed,
	CompletionFailed.Code:         CompletionFailed,
	CVUploadFailed.Code:           CVUploadFailed,
	TooManyRequests.Code:          TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
