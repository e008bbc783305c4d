package dto

import "encoding/json"

// ========== Profile 相关 DTO ==========

// UpdateFieldRequest 标量字段编辑，value 按字段类型解释
type UpdateFieldRequest struct {
	Section string          `json:"section" vd:"len($)>0"`
	Field   string          `json:"field" vd:"len($)>0"`
	Value   json.RawMessage `json:"value"`
}

// SelectAlternativeRequest 采纳备选项
type SelectAlternativeRequest struct {
	Section string `json:"section" vd:"len($)>0"`
	Field   string `json:"field" vd:"len($)>0"`
	Index   int    `json:"index"`
}

// ListOpRequest 列表段编辑
type ListOpRequest struct {
	Section string          `json:"section" vd:"len($)>0"`
	Action  string          `json:"action" vd:"len($)>0"`
	Index   int             `json:"index"`
	To      int             `json:"to"`
	Item    json.RawMessage `json:"item,omitempty"`
}

// ProfileData 画像回显，data 为完整 JSONB 内容，
// merged_ideas 是常青+热点的展示合并视图
type ProfileData struct {
	Data        json.RawMessage `json:"data"`
	MergedIdeas []string        `json:"merged_ideas"`
}
