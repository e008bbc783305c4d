package model

import "time"

// ProfileEnrichMessage 画像补齐重试消息。合成失败走兜底完成路径后发布，
// 由 worker 延迟消费重试
type ProfileEnrichMessage struct {
	MessageID   int64     `json:"message_id"` // 雪花 ID，消费端做幂等
	UserID      int64     `json:"user_id"`
	Attempt     int       `json:"attempt"` // 从 1 开始
	TriggeredAt time.Time `json:"triggered_at"`
}
