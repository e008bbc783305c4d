package utils

import (
	"net/http"
	"strings"
)

// DetectMimeType 根据文件内容嗅探 MIME 类型，
// 不信任客户端上传时声明的 Content-Type
func DetectMimeType(data []byte) string {
	detected := http.DetectContentType(data)

	// DetectContentType 对文本类型会附带 charset 参数，这里只要主类型
	if idx := strings.Index(detected, ";"); idx >= 0 {
		detected = strings.TrimSpace(detected[:idx])
	}

	return detected
}
