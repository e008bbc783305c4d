package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"PostPilot/pkg/errors"
)

func TestValidatePreferences(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, ValidatePreferences(DefaultPostTypeDistribution(), DefaultHashtagCount))
	})

	t.Run("hashtag count bounds", func(t *testing.T) {
		assert.NoError(t, ValidatePreferences(nil, HashtagCountMin))
		assert.NoError(t, ValidatePreferences(nil, HashtagCountMax))
		assert.ErrorIs(t, ValidatePreferences(nil, HashtagCountMin-1), errors.HashtagCountInvalid)
		assert.ErrorIs(t, ValidatePreferences(nil, HashtagCountMax+1), errors.HashtagCountInvalid)
	})

	t.Run("unknown post type", func(t *testing.T) {
		dist := PostTypeDistribution{"podcast": 50}
		assert.ErrorIs(t, ValidatePreferences(dist, DefaultHashtagCount), errors.PostTypeInvalid)
	})

	t.Run("percentages are independent and unchecked", func(t *testing.T) {
		dist := PostTypeDistribution{
			PostTypeTextOnly: 90,
			PostTypeVideo:    90,
		}
		assert.NoError(t, ValidatePreferences(dist, 5))
	})
}
