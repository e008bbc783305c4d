package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"PostPilot/pkg/errors"
)

// MaxAdditionalContextChars 用户自述补充信息的长度上限（按字符数计）
const MaxAdditionalContextChars = 500

// AIText 可带 AI 标记的文本字段。aiGenerated 表示当前值出自合成，
// 用户手动编辑后清除；alternatives 是合成时给出的备选项
type AIText struct {
	Value        string   `json:"value"`
	AIGenerated  bool     `json:"ai_generated"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// AINumber 可带 AI 标记的数值字段
type AINumber struct {
	Value       int  `json:"value"`
	AIGenerated bool `json:"ai_generated"`
}

// TagSet 标签集合字段，整体替换式编辑
type TagSet struct {
	Values      []string `json:"values"`
	AIGenerated bool     `json:"ai_generated"`
}

type ExpertiseItem struct {
	Skill string `json:"skill"`
	Level string `json:"level"`
	Years int    `json:"years"`
}

type AudienceSegment struct {
	Persona     string `json:"persona"`
	Description string `json:"description"`
}

type MixItem struct {
	Category   string `json:"category"`
	Percentage int    `json:"percentage"` // 各项独立百分比，不校验总和
}

type PersonalInfo struct {
	Name            AIText   `json:"name"`
	CurrentRole     AIText   `json:"current_role"`
	Company         AIText   `json:"company"`
	Industry        AIText   `json:"industry"`
	YearsExperience AINumber `json:"years_experience"`
}

type ContentStrategy struct {
	Tone             AIText `json:"tone"`
	PostingFrequency AIText `json:"posting_frequency"`
	ContentGoals     TagSet `json:"content_goals"`
}

// ContentIdeas 常青与热点选题分开存储，展示层再合并
type ContentIdeas struct {
	Evergreen []string `json:"evergreen"`
	Trending  []string `json:"trending"`
}

// ProfileData 画像内容（JSONB）
type ProfileData struct {
	PersonalInfo    PersonalInfo      `json:"personal_info"`
	Expertise       []ExpertiseItem   `json:"expertise"`
	TargetAudience  []AudienceSegment `json:"target_audience"`
	ContentStrategy ContentStrategy   `json:"content_strategy"`
	ContentMix      []MixItem         `json:"content_mix"`
	ContentIdeas    ContentIdeas      `json:"content_ideas"`

	// 用户自填的补充信息，永远不带 AI 标记
	AdditionalContext string `json:"additional_context"`
}

func (d ProfileData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ProfileData) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = ProfileData{}
		return nil
	default:
		return fmt.Errorf("unsupported type for ProfileData: %T", value)
	}
}

// MergedIdeas 展示用：常青在前热点在后的合并视图，存储保持分离
func (d *ProfileData) MergedIdeas() []string {
	out := make([]string, 0, len(d.ContentIdeas.Evergreen)+len(d.ContentIdeas.Trending))
	out = append(out, d.ContentIdeas.Evergreen...)
	out = append(out, d.ContentIdeas.Trending...)
	return out
}

// ProfileContext 画像持久化模型，每用户唯一

type ProfileContext struct {
	BaseModel
	UserID int64       `gorm:"uniqueIndex;not null" json:"user_id"`
	Data   ProfileData `gorm:"type:jsonb;not null;default:'{}'" json:"data"`
}

func (ProfileContext) TableName() string {
	return "profile_contexts"
}

// FieldKind 标量字段的类型标签
type FieldKind string

const (
	FieldText         FieldKind = "text"
	FieldNumber       FieldKind = "number"
	FieldSingleSelect FieldKind = "single_select"
	FieldTagSet       FieldKind = "tag_set"
)

// 标量字段注册表，key 为 "section.field"。
// 列表段（expertise 等）走 ApplyListOp，不在此表
var scalarFields = map[string]FieldKind{
	"personal_info.name":             FieldText,
	"personal_info.current_role":     FieldText,
	"personal_info.company":          FieldText,
	"personal_info.industry":         FieldText,
	"personal_info.years_experience": FieldNumber,

	"content_strategy.tone":              FieldSingleSelect,
	"content_strategy.posting_frequency": FieldSingleSelect,
	"content_strategy.content_goals":     FieldTagSet,

	"profile.additional_context": FieldText,
}

// FieldKindOf 查询标量字段类型，供路由层回显
func FieldKindOf(section, field string) (FieldKind, bool) {
	kind, ok := scalarFields[section+"."+field]
	return kind, ok
}

// textField 返回指向字段的指针，供就地修改
func (d *ProfileData) textField(path string) *AIText {
	switch path {
	case "personal_info.name":
		return &d.PersonalInfo.Name
	case "personal_info.current_role":
		return &d.PersonalInfo.CurrentRole
	case "personal_info.company":
		return &d.PersonalInfo.Company
	case "personal_info.industry":
		return &d.PersonalInfo.Industry
	case "content_strategy.tone":
		return &d.ContentStrategy.Tone
	case "content_strategy.posting_frequency":
		return &d.ContentStrategy.PostingFrequency
	}
	return nil
}

// ApplyFieldUpdate 应用一次标量字段编辑。手动编辑会清掉 AI 标记，
// 值的类型必须与字段类型一致
func (d *ProfileData) ApplyFieldUpdate(section, field string, raw json.RawMessage) error {
	path := section + "." + field
	kind, ok := scalarFields[path]
	if !ok {
		return errors.FieldUnknown
	}

	switch kind {
	case FieldText, FieldSingleSelect:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return errors.FieldKindMismatch
		}

		if path == "profile.additional_context" {
			if utf8.RuneCountInString(value) > MaxAdditionalContextChars {
				return errors.AdditionalContextTooLong
			}
			d.AdditionalContext = value
			return nil
		}

		target := d.textField(path)
		target.Value = value
		target.AIGenerated = false
	case FieldNumber:
		var value int
		if err := json.Unmarshal(raw, &value); err != nil {
			return errors.FieldKindMismatch
		}
		d.PersonalInfo.YearsExperience.Value = value
		d.PersonalInfo.YearsExperience.AIGenerated = false
	case FieldTagSet:
		var values []string
		if err := json.Unmarshal(raw, &values); err != nil {
			return errors.FieldKindMismatch
		}
		d.ContentStrategy.ContentGoals.Values = values
		d.ContentStrategy.ContentGoals.AIGenerated = false
	}

	return nil
}

// SelectAlternative 采纳第 index 个备选项：备选值成为当前值，
// 备选列表清空，AI 标记保留（值仍出自合成）
func (d *ProfileData) SelectAlternative(section, field string, index int) error {
	path := section + "." + field
	kind, ok := scalarFields[path]
	if !ok {
		return errors.FieldUnknown
	}
	if kind != FieldText && kind != FieldSingleSelect {
		return errors.FieldKindMismatch
	}

	target := d.textField(path)
	if target == nil {
		return errors.FieldUnknown
	}
	if index < 0 || index >= len(target.Alternatives) {
		return errors.AlternativeIndexInvalid
	}

	target.Value = target.Alternatives[index]
	target.Alternatives = nil
	return nil
}

// ListOpAction 列表编辑动作
type ListOpAction string

const (
	ListOpAdd    ListOpAction = "add"
	ListOpUpdate ListOpAction = "update"
	ListOpRemove ListOpAction = "remove"
	ListOpMove   ListOpAction = "move"
)

// ListOp 一次列表编辑。add/update 需要 item，move 需要 to
type ListOp struct {
	Action ListOpAction    `json:"action"`
	Index  int             `json:"index"`
	To     int             `json:"to"`
	Item   json.RawMessage `json:"item,omitempty"`
}

func applyListOp[T any](list []T, op ListOp) ([]T, error) {
	switch op.Action {
	case ListOpAdd:
		var item T
		if err := json.Unmarshal(op.Item, &item); err != nil {
			return nil, errors.FieldKindMismatch
		}
		return append(list, item), nil
	case ListOpUpdate:
		if op.Index < 0 || op.Index >= len(list) {
			return nil, errors.ListIndexOutOfRange
		}
		var item T
		if err := json.Unmarshal(op.Item, &item); err != nil {
			return nil, errors.FieldKindMismatch
		}
		list[op.Index] = item
		return list, nil
	case ListOpRemove:
		if op.Index < 0 || op.Index >= len(list) {
			return nil, errors.ListIndexOutOfRange
		}
		return append(list[:op.Index], list[op.Index+1:]...), nil
	case ListOpMove:
		if op.Index < 0 || op.Index >= len(list) || op.To < 0 || op.To >= len(list) {
			return nil, errors.ListIndexOutOfRange
		}
		item := list[op.Index]
		list = append(list[:op.Index], list[op.Index+1:]...)

		rest := make([]T, 0, len(list)+1)
		rest = append(rest, list[:op.To]...)
		rest = append(rest, item)
		rest = append(rest, list[op.To:]...)
		return rest, nil
	default:
		return nil, errors.FieldKindMismatch
	}
}

// ApplyListOp 应用一次列表段编辑，立即生效不做暂存
func (d *ProfileData) ApplyListOp(section string, op ListOp) error {
	var err error

	switch section {
	case "expertise":
		d.Expertise, err = applyListOp(d.Expertise, op)
	case "target_audience":
		d.TargetAudience, err = applyListOp(d.TargetAudience, op)
	case "content_mix":
		d.ContentMix, err = applyListOp(d.ContentMix, op)
	case "content_ideas.evergreen":
		d.ContentIdeas.Evergreen, err = applyListOp(d.ContentIdeas.Evergreen, op)
	case "content_ideas.trending":
		d.ContentIdeas.Trending, err = applyListOp(d.ContentIdeas.Trending, op)
	default:
		return errors.FieldUnknown
	}

	return err
}
