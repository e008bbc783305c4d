package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"PostPilot/pkg/errors"
)

// UserStatus 用户状态枚举
type UserStatus string

const (
	UserStatusOnboarding UserStatus = "onboarding" // 引导向导未完成
	UserStatusActive     UserStatus = "active"     // 正常使用
)

// StatusToStringMap 状态到对外字符串的映射
var StatusToStringMap = map[UserStatus]string{
	UserStatusOnboarding: "onboarding",
	UserStatusActive:     "active",
}

// 发布格式，偏好分布的 key
const (
	PostTypeTextOnly      = "text_only"
	PostTypeTextWithImage = "text_with_image"
	PostTypeCarousel      = "carousel"
	PostTypeVideo         = "video"
)

// PostTypeDistribution 发布格式占比（JSONB），各项独立百分比，不强制求和为 100
type PostTypeDistribution map[string]int

func (d PostTypeDistribution) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *PostTypeDistribution) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("unsupported type for PostTypeDistribution: %T", value)
	}
}

// DefaultPostTypeDistribution 新用户的默认发布格式占比
func DefaultPostTypeDistribution() PostTypeDistribution {
	return PostTypeDistribution{
		PostTypeTextOnly:      40,
		PostTypeTextWithImage: 30,
		PostTypeCarousel:      20,
		PostTypeVideo:         10,
	}
}

// KnownPostType 检查分布里的 key 是否合法
func KnownPostType(key string) bool {
	switch key {
	case PostTypeTextOnly, PostTypeTextWithImage, PostTypeCarousel, PostTypeVideo:
		return true
	}
	return false
}

const (
	HashtagCountMin     = 0
	HashtagCountMax     = 10
	DefaultHashtagCount = 3
)

// User 用户模型

type User struct {
	BaseModel
	PublicID    int64      `gorm:"uniqueIndex;not null" json:"public_id"`
	AuthSubject string     `gorm:"uniqueIndex;type:varchar(128);not null" json:"auth_subject"` // 外部身份提供方的 subject
	Nickname    string     `gorm:"type:varchar(64);not null;default:''" json:"nickname"`
	Status      UserStatus `gorm:"type:varchar(16);not null;default:'onboarding';index:idx_users_status" json:"status"`

	// 引导完成标记，服务端权威记录；Redis 中仅保留一份加速用的镜像
	OnboardingCompleted bool `gorm:"not null;default:false" json:"onboarding_completed"`

	// 偏好设置，step 5 提交时覆盖，之后可在设置页修改
	PostTypeDistribution PostTypeDistribution `gorm:"type:jsonb;default:'{}'" json:"post_type_distribution"`
	HashtagCount         int                  `gorm:"not null;default:3" json:"hashtag_count"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// ValidatePreferences 校验偏好提交，纯校验不落库
func ValidatePreferences(distribution PostTypeDistribution, hashtagCount int) error {
	if hashtagCount < HashtagCountMin || hashtagCount > HashtagCountMax {
		return errors.HashtagCountInvalid
	}
	for key := range distribution {
		if !KnownPostType(key) {
			return errors.PostTypeInvalid
		}
	}
	return nil
}
