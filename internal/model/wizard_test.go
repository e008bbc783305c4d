package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PostPilot/pkg/errors"
)

func newSessionAt(step WizardStep) *WizardSession {
	s := &WizardSession{CurrentStep: StepAccountType}
	if step >= StepStyleChoice {
		s.AccountType = AccountTypePerson
		s.CurrentStep = StepStyleChoice
	}
	if step >= StepUploadCV {
		s.StyleChoice = StyleTopCreators
		s.CurrentStep = StepUploadCV
	}
	if step >= StepImportPosts {
		s.CurrentStep = StepImportPosts
	}
	if step >= StepPreview {
		s.HasProcessedProfile = true
		s.CurrentStep = StepPreview
	}
	return s
}

func TestSubmitAccountType(t *testing.T) {
	t.Run("person advances to style choice", func(t *testing.T) {
		s := newSessionAt(StepAccountType)
		require.NoError(t, s.SubmitAccountType(AccountTypePerson))
		assert.Equal(t, StepStyleChoice, s.CurrentStep)
		assert.Equal(t, AccountTypePerson, s.AccountType)
	})

	t.Run("business is rejected but keeps session intact", func(t *testing.T) {
		s := newSessionAt(StepAccountType)
		err := s.SubmitAccountType(AccountTypeBusiness)
		assert.ErrorIs(t, err, errors.AccountTypeUnsupported)
		assert.Equal(t, StepAccountType, s.CurrentStep)
		assert.Empty(t, s.AccountType)
	})

	t.Run("unknown value", func(t *testing.T) {
		s := newSessionAt(StepAccountType)
		err := s.SubmitAccountType("agency")
		assert.ErrorIs(t, err, errors.AccountTypeInvalid)
	})

	t.Run("wrong step", func(t *testing.T) {
		s := newSessionAt(StepUploadCV)
		err := s.SubmitAccountType(AccountTypePerson)
		assert.ErrorIs(t, err, errors.StepOrderViolation)
	})

	t.Run("completed session rejects everything", func(t *testing.T) {
		s := newSessionAt(StepAccountType)
		now := time.Now()
		s.CompletedAt = &now
		err := s.SubmitAccountType(AccountTypePerson)
		assert.ErrorIs(t, err, errors.WizardAlreadyCompleted)
	})
}

func TestSubmitStyleChoice(t *testing.T) {
	t.Run("valid choice advances", func(t *testing.T) {
		s := newSessionAt(StepStyleChoice)
		require.NoError(t, s.SubmitStyleChoice(StyleMyStyle))
		assert.Equal(t, StepUploadCV, s.CurrentStep)
	})

	t.Run("invalid choice", func(t *testing.T) {
		s := newSessionAt(StepStyleChoice)
		err := s.SubmitStyleChoice("famous_people")
		assert.ErrorIs(t, err, errors.StyleChoiceInvalid)
	})
}

func TestAttachCV(t *testing.T) {
	t.Run("attach advances to import step", func(t *testing.T) {
		s := newSessionAt(StepUploadCV)
		assetID := int64(42)
		require.NoError(t, s.AttachCV(&assetID))
		require.NotNil(t, s.CVAssetID)
		assert.Equal(t, int64(42), *s.CVAssetID)
		assert.Equal(t, StepImportPosts, s.CurrentStep)
	})

	t.Run("nil means skip and still advances", func(t *testing.T) {
		s := newSessionAt(StepUploadCV)
		require.NoError(t, s.AttachCV(nil))
		assert.Nil(t, s.CVAssetID)
		assert.Equal(t, StepImportPosts, s.CurrentStep)
	})

	t.Run("wrong step", func(t *testing.T) {
		s := newSessionAt(StepStyleChoice)
		err := s.AttachCV(nil)
		assert.ErrorIs(t, err, errors.StepOrderViolation)
	})
}

func TestSetSamplePosts(t *testing.T) {
	s := newSessionAt(StepImportPosts)

	require.NoError(t, s.SetSamplePosts([]string{"post one", "", "post three"}))
	assert.Len(t, s.SamplePosts, 3)
	assert.Len(t, s.SamplePosts.NonEmpty(), 2)

	tooMany := make([]string, MaxSamplePosts+1)
	err := s.SetSamplePosts(tooMany)
	assert.ErrorIs(t, err, errors.SamplePostsLimit)
}

func TestValidateDraftPosts(t *testing.T) {
	t.Run("empty slots and normal text pass", func(t *testing.T) {
		assert.NoError(t, ValidateDraftPosts([]string{"draft text", "", "another"}))
		assert.NoError(t, ValidateDraftPosts(nil))
	})

	t.Run("over the slot limit", func(t *testing.T) {
		posts := make([]string, MaxSamplePosts+1)
		assert.ErrorIs(t, ValidateDraftPosts(posts), errors.SamplePostsLimit)
	})

	t.Run("whitespace-only content rejected", func(t *testing.T) {
		assert.ErrorIs(t, ValidateDraftPosts([]string{"ok", "   "}), errors.SamplePostEmpty)
	})
}

func TestMergeImportedPosts(t *testing.T) {
	t.Run("fills empty slots before appending", func(t *testing.T) {
		s := newSessionAt(StepImportPosts)
		s.SamplePosts = SamplePosts{"manual one", "", "manual three"}

		placed := s.MergeImportedPosts([]string{"imported a", "imported b"})

		assert.Equal(t, 2, placed)
		assert.Equal(t, SamplePosts{"manual one", "imported a", "manual three", "imported b"}, s.SamplePosts)
	})

	t.Run("never overwrites manual content", func(t *testing.T) {
		s := newSessionAt(StepImportPosts)
		s.SamplePosts = SamplePosts{"manual"}

		s.MergeImportedPosts([]string{"imported"})

		assert.Equal(t, "manual", s.SamplePosts[0])
	})

	t.Run("drops overflow beyond slot limit", func(t *testing.T) {
		s := newSessionAt(StepImportPosts)
		s.SamplePosts = make(SamplePosts, MaxSamplePosts-1)
		for i := range s.SamplePosts {
			s.SamplePosts[i] = "manual"
		}

		placed := s.MergeImportedPosts([]string{"a", "b", "c", "d"})

		// 只剩一个追加位，第 10 条之后全部丢弃
		assert.Equal(t, MaxSamplePosts, len(s.SamplePosts))
		assert.Equal(t, 1, placed)
		assert.Equal(t, "a", s.SamplePosts[MaxSamplePosts-1])
	})

	t.Run("blank imports are ignored", func(t *testing.T) {
		s := newSessionAt(StepImportPosts)
		placed := s.MergeImportedPosts([]string{"", "   ", "real"})
		assert.Equal(t, 1, placed)
		assert.Equal(t, SamplePosts{"real"}, s.SamplePosts)
	})
}

func TestReadyForProcessing(t *testing.T) {
	t.Run("top_creators needs no posts", func(t *testing.T) {
		s := newSessionAt(StepImportPosts)
		s.StyleChoice = StyleTopCreators
		assert.NoError(t, s.ReadyForProcessing())
	})

	t.Run("my_style requires at least one non-empty post", func(t *testing.T) {
		s := newSessionAt(StepImportPosts)
		s.StyleChoice = StyleMyStyle
		s.SamplePosts = SamplePosts{"", "  "}
		assert.ErrorIs(t, s.ReadyForProcessing(), errors.SamplePostRequired)

		s.SamplePosts = SamplePosts{"my first post"}
		assert.NoError(t, s.ReadyForProcessing())
	})

	t.Run("wrong step", func(t *testing.T) {
		s := newSessionAt(StepUploadCV)
		assert.ErrorIs(t, s.ReadyForProcessing(), errors.StepOrderViolation)
	})
}

func TestStepBack(t *testing.T) {
	s := newSessionAt(StepImportPosts)

	require.NoError(t, s.StepBack())
	assert.Equal(t, StepUploadCV, s.CurrentStep)
	// 后退不清数据
	assert.Equal(t, StyleTopCreators, s.StyleChoice)

	s.CurrentStep = StepAccountType
	assert.ErrorIs(t, s.StepBack(), errors.BackFromFirstStep)
}

func TestResumeStep(t *testing.T) {
	t.Run("processed profile jumps to preview", func(t *testing.T) {
		s := newSessionAt(StepStyleChoice)
		s.HasProcessedProfile = true
		assert.Equal(t, StepPreview, s.ResumeStep())
	})

	t.Run("returns recorded step otherwise", func(t *testing.T) {
		s := newSessionAt(StepUploadCV)
		assert.Equal(t, StepUploadCV, s.ResumeStep())
	})

	t.Run("clamps out of range values", func(t *testing.T) {
		s := &WizardSession{CurrentStep: 0}
		assert.Equal(t, StepFirst, s.ResumeStep())

		s.CurrentStep = 99
		assert.Equal(t, StepLast, s.ResumeStep())
	})
}

func TestComplete(t *testing.T) {
	s := newSessionAt(StepPreview)
	now := time.Now()

	require.NoError(t, s.Complete(now))
	require.NotNil(t, s.CompletedAt)
	assert.True(t, s.IsCompleted())

	assert.ErrorIs(t, s.Complete(now), errors.WizardAlreadyCompleted)
}

func TestMarkProcessed(t *testing.T) {
	s := newSessionAt(StepImportPosts)
	s.MarkProcessed()
	assert.True(t, s.HasProcessedProfile)
	assert.Equal(t, StepPreview, s.CurrentStep)
}
