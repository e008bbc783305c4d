package model

import (
	"PostPilot/pkg/errors"
)

// CVAssetStatus 简历素材状态
type CVAssetStatus string

const (
	CVAssetStaged   CVAssetStatus = "staged"   // 已暂存，process 前可被替换
	CVAssetUploaded CVAssetStatus = "uploaded" // process 时定稿
)

// MaxCVSizeBytes 简历文件大小上限（10 MiB）
const MaxCVSizeBytes = 10 << 20

// AllowedCVMimeTypes 简历允许的 MIME 类型白名单
var AllowedCVMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// CVAsset 简历素材。内容直接存 bytea，规模上 10 MiB 的单文件
// 不值得引入对象存储

type CVAsset struct {
	BaseModel
	PublicID int64         `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID   int64         `gorm:"index;not null" json:"user_id"`
	FileName string        `gorm:"type:varchar(255);not null" json:"file_name"`
	MimeType string        `gorm:"type:varchar(64);not null" json:"mime_type"`
	SizeByte int64         `gorm:"not null" json:"size_byte"`
	Content  []byte        `gorm:"type:bytea;not null" json:"-"`
	Status   CVAssetStatus `gorm:"type:varchar(16);not null;default:'staged';index" json:"status"`
}

func (CVAsset) TableName() string {
	return "cv_assets"
}

// ValidateCV 校验简历文件的类型与大小
func ValidateCV(mimeType string, size int64) error {
	if !AllowedCVMimeTypes[mimeType] {
		return errors.CVMimeUnsupported
	}
	if size > MaxCVSizeBytes {
		return errors.CVFileTooLarge
	}
	return nil
}
