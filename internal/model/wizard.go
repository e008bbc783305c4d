package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"PostPilot/pkg/errors"
)

// WizardStep 引导向导步骤，1 起始
type WizardStep int

const (
	StepAccountType WizardStep = 1 // 选择账号类型
	StepStyleChoice WizardStep = 2 // 选择文风来源
	StepUploadCV    WizardStep = 3 // 上传简历
	StepImportPosts WizardStep = 4 // 导入样本帖子
	StepPreview     WizardStep = 5 // 画像预览与偏好确认
)

const (
	StepFirst = StepAccountType
	StepLast  = StepPreview
)

// AccountType 账号类型
type AccountType string

const (
	AccountTypePerson   AccountType = "person"
	AccountTypeBusiness AccountType = "business" // 暂不开放，提交时拒绝
)

// StyleChoice 文风来源
type StyleChoice string

const (
	StyleTopCreators StyleChoice = "top_creators" // 模仿头部创作者
	StyleMyStyle     StyleChoice = "my_style"     // 学习用户自己的历史帖子
)

// MaxSamplePosts 样本帖子槽位上限
const MaxSamplePosts = 10

// SamplePosts 样本帖子槽位（JSONB）。空串表示空槽，导入只会填充空槽，
// 不会覆盖用户手动输入的内容。
type SamplePosts []string

func (p SamplePosts) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p)
}

func (p *SamplePosts) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for SamplePosts: %T", value)
	}
}

// NonEmpty 返回去掉空槽后的帖子列表
func (p SamplePosts) NonEmpty() []string {
	out := make([]string, 0, len(p))
	for _, post := range p {
		if strings.TrimSpace(post) != "" {
			out = append(out, post)
		}
	}
	return out
}

// WizardSession 引导向导会话，每个用户至多一条（uniqueIndex）

type WizardSession struct {
	BaseModel
	UserID      int64       `gorm:"uniqueIndex;not null" json:"user_id"`
	CurrentStep WizardStep  `gorm:"not null;default:1" json:"current_step"`
	AccountType AccountType `gorm:"type:varchar(16);not null;default:''" json:"account_type"`
	StyleChoice StyleChoice `gorm:"type:varchar(16);not null;default:''" json:"style_choice"`
	SamplePosts SamplePosts `gorm:"type:jsonb;default:'[]'" json:"sample_posts"`
	CVAssetID   *int64      `gorm:"index" json:"cv_asset_id"` // staged 状态的简历，process 时转为 uploaded

	// 画像是否已生成过，恢复会话时据此直接跳到预览步
	HasProcessedProfile bool       `gorm:"not null;default:false" json:"has_processed_profile"`
	CompletedAt         *time.Time `json:"completed_at"`
}

func (WizardSession) TableName() string {
	return "wizard_sessions"
}

// IsCompleted 会话是否已终结
func (s *WizardSession) IsCompleted() bool {
	return s.CompletedAt != nil
}

// ValidAccountType 检查账号类型取值
func ValidAccountType(t AccountType) bool {
	return t == AccountTypePerson || t == AccountTypeBusiness
}

// ValidStyleChoice 检查文风来源取值
func ValidStyleChoice(c StyleChoice) bool {
	return c == StyleTopCreators || c == StyleMyStyle
}

// SubmitAccountType 提交第一步。business 类型合法但暂不开放
func (s *WizardSession) SubmitAccountType(t AccountType) error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}
	if !ValidAccountType(t) {
		return errors.AccountTypeInvalid
	}
	if t == AccountTypeBusiness {
		return errors.AccountTypeUnsupported
	}
	if s.CurrentStep != StepAccountType {
		return errors.StepOrderViolation
	}

	s.AccountType = t
	s.CurrentStep = StepStyleChoice
	return nil
}

// SubmitStyleChoice 提交第二步
func (s *WizardSession) SubmitStyleChoice(c StyleChoice) error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}
	if !ValidStyleChoice(c) {
		return errors.StyleChoiceInvalid
	}
	if s.CurrentStep != StepStyleChoice {
		return errors.StepOrderViolation
	}

	s.StyleChoice = c
	s.CurrentStep = StepUploadCV
	return nil
}

// AttachCV 记录第三步暂存的简历并前进。简历本身可选，nil 表示跳过上传
func (s *WizardSession) AttachCV(assetID *int64) error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}
	if s.CurrentStep != StepUploadCV {
		return errors.StepOrderViolation
	}

	s.CVAssetID = assetID
	s.CurrentStep = StepImportPosts
	return nil
}

// SetSamplePosts 覆盖手动输入的样本帖子，不前进步骤
func (s *WizardSession) SetSamplePosts(posts []string) error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}
	if len(posts) > MaxSamplePosts {
		return errors.SamplePostsLimit
	}

	s.SamplePosts = SamplePosts(posts)
	return nil
}

// ValidateDraftPosts 校验帖子槽位输入：数量不超上限，
// 非空内容不能是纯空白。手动提交和草稿自动保存共用
func ValidateDraftPosts(posts []string) error {
	if len(posts) > MaxSamplePosts {
		return errors.SamplePostsLimit
	}
	for _, post := range posts {
		if post != "" && strings.TrimSpace(post) == "" {
			return errors.SamplePostEmpty
		}
	}
	return nil
}

// MergeImportedPosts 把外部导入的帖子合并进槽位：只填空槽，
// 槽位满后丢弃剩余，返回实际写入数量
func (s *WizardSession) MergeImportedPosts(imported []string) int {
	placed := 0
	slots := s.SamplePosts

	for _, post := range imported {
		if strings.TrimSpace(post) == "" {
			continue
		}

		filled := false
		for i := range slots {
			if strings.TrimSpace(slots[i]) == "" {
				slots[i] = post
				filled = true
				break
			}
		}
		if !filled {
			if len(slots) >= MaxSamplePosts {
				break // 槽位已满
			}
			slots = append(slots, post)
		}
		placed++
	}

	s.SamplePosts = slots
	return placed
}

// ReadyForProcessing 校验第四步是否可以提交处理。
// my_style 下至少需要一条非空样本帖子
func (s *WizardSession) ReadyForProcessing() error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}
	if s.CurrentStep != StepImportPosts {
		return errors.StepOrderViolation
	}
	if s.StyleChoice == StyleMyStyle && len(s.SamplePosts.NonEmpty()) == 0 {
		return errors.SamplePostRequired
	}
	return nil
}

// StepBack 后退一步，已填数据全部保留
func (s *WizardSession) StepBack() error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}
	if s.CurrentStep <= StepFirst {
		return errors.BackFromFirstStep
	}

	s.CurrentStep--
	return nil
}

// ResumeStep 恢复会话应落在的步骤：画像已生成则直接进预览，
// 否则回到记录的当前步
func (s *WizardSession) ResumeStep() WizardStep {
	if s.HasProcessedProfile {
		return StepPreview
	}
	if s.CurrentStep < StepFirst {
		return StepFirst
	}
	if s.CurrentStep > StepLast {
		return StepLast
	}
	return s.CurrentStep
}

// MarkProcessed 画像生成成功后推进到预览步
func (s *WizardSession) MarkProcessed() {
	s.HasProcessedProfile = true
	s.CurrentStep = StepPreview
}

// Complete 终结会话。重复提交直接报错，由调用方决定是否幂等处理
func (s *WizardSession) Complete(now time.Time) error {
	if s.IsCompleted() {
		return errors.WizardAlreadyCompleted
	}

	s.CompletedAt = &now
	return nil
}
