package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"PostPilot/pkg/errors"
)

func TestValidateCV(t *testing.T) {
	cases := []struct {
		name     string
		mimeType string
		size     int64
		wantErr  error
	}{
		{"pdf within limit", "application/pdf", 2 << 20, nil},
		{"png within limit", "image/png", 1024, nil},
		{"webp within limit", "image/webp", 1024, nil},
		{"exactly at limit", "application/pdf", MaxCVSizeBytes, nil},
		{"one byte over limit", "application/pdf", MaxCVSizeBytes + 1, errors.CVFileTooLarge},
		{"docx rejected", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024, errors.CVMimeUnsupported},
		{"plain text rejected", "text/plain", 10, errors.CVMimeUnsupported},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCV(tc.mimeType, tc.size)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
