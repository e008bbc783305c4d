package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PostPilot/config"
	"PostPilot/internal/model"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/logger"
	"PostPilot/pkg/synthesis"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeStore 内存版 ProcessingStore，可注入单点故障
type fakeStore struct {
	user    *model.User
	session *model.WizardSession
	cv      *model.CVAsset

	savedProfile  *model.ProfileData
	hasProfile    bool
	finalized     bool
	userCompleted bool

	finalizeErr    error
	saveProfileErr error
	completeErr    error
}

func (f *fakeStore) LoadUser(ctx context.Context, userID int64) (*model.User, error) {
	return f.user, nil
}

func (f *fakeStore) LoadSession(ctx context.Context, userID int64) (*model.WizardSession, error) {
	// 返回副本，和真实实现一样每次从库里读
	session := *f.session
	return &session, nil
}

func (f *fakeStore) SaveSession(ctx context.Context, session *model.WizardSession) error {
	f.session = session
	return nil
}

func (f *fakeStore) LoadCV(ctx context.Context, assetID int64) (*model.CVAsset, error) {
	if f.cv == nil {
		return nil, errors.CVFileMissing
	}
	return f.cv, nil
}

func (f *fakeStore) FinalizeCV(ctx context.Context, assetID int64) error {
	if f.finalizeErr != nil {
		return f.finalizeErr
	}
	f.finalized = true
	f.cv.Status = model.CVAssetUploaded
	return nil
}

func (f *fakeStore) SaveProfile(ctx context.Context, userID int64, data *model.ProfileData) error {
	if f.saveProfileErr != nil {
		return f.saveProfileErr
	}
	f.savedProfile = data
	f.hasProfile = true
	return nil
}

func (f *fakeStore) HasProfile(ctx context.Context, userID int64) (bool, error) {
	return f.hasProfile, nil
}

func (f *fakeStore) CompleteOnboarding(ctx context.Context, session *model.WizardSession) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.session = session
	f.userCompleted = true
	return nil
}

// fakeSidecar 记录副作用调用
type fakeSidecar struct {
	draftCached   bool
	mirrored      bool
	retryAttempts []int
}

func (f *fakeSidecar) CacheDraft(ctx context.Context, userID int64, data *model.ProfileData) error {
	f.draftCached = true
	return nil
}

func (f *fakeSidecar) MirrorCompleted(ctx context.Context, userID int64) error {
	f.mirrored = true
	return nil
}

func (f *fakeSidecar) PublishEnrichRetry(ctx context.Context, userID int64, attempt int) error {
	f.retryAttempts = append(f.retryAttempts, attempt)
	return nil
}

func processingFixture() (*fakeStore, *fakeSidecar, *synthesis.MockClient, *ProcessingService) {
	assetID := int64(7)
	store := &fakeStore{
		user: &model.User{
			BaseModel: model.BaseModel{ID: 1},
			PublicID:  1001,
			Nickname:  "jordan",
			Status:    model.UserStatusOnboarding,
		},
		session: &model.WizardSession{
			UserID:      1,
			CurrentStep: model.StepImportPosts,
			AccountType: model.AccountTypePerson,
			StyleChoice: model.StyleMyStyle,
			SamplePosts: model.SamplePosts{"my best post", ""},
			CVAssetID:   &assetID,
		},
		cv: &model.CVAsset{
			BaseModel: model.BaseModel{ID: 7},
			UserID:    1,
			FileName:  "cv.pdf",
			MimeType:  "application/pdf",
			Content:   []byte("%PDF-cv"),
			Status:    model.CVAssetStaged,
		},
	}
	sidecar := &fakeSidecar{}
	mock := synthesis.NewMockClient()
	svc := NewProcessingService(store, sidecar, mock)
	return store, sidecar, mock, svc
}

func TestProcessSuccess(t *testing.T) {
	store, sidecar, mock, svc := processingFixture()

	result, err := svc.Process(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.ProfileReady)
	assert.False(t, result.FallbackCompleted)
	assert.Equal(t, int(model.StepPreview), result.State.CurrentStep)

	// 简历定稿且内容进了合成输入
	assert.True(t, store.finalized)
	require.Len(t, mock.Inputs, 1)
	assert.Equal(t, []byte("%PDF-cv"), mock.Inputs[0].CVContent)
	assert.Equal(t, []string{"my best post"}, mock.Inputs[0].SamplePosts)
	assert.Equal(t, "my_style", mock.Inputs[0].StyleChoice)

	// 画像落库、会话推进、草稿缓存
	require.NotNil(t, store.savedProfile)
	assert.True(t, store.session.HasProcessedProfile)
	assert.True(t, sidecar.draftCached)

	// 正常路径不动完成态
	assert.False(t, store.userCompleted)
	assert.False(t, store.session.IsCompleted())
	assert.Empty(t, sidecar.retryAttempts)
}

func TestProcessSkippedCV(t *testing.T) {
	store, _, mock, svc := processingFixture()
	store.session.CVAssetID = nil

	result, err := svc.Process(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.ProfileReady)
	assert.False(t, store.finalized)
	require.Len(t, mock.Inputs, 1)
	assert.Nil(t, mock.Inputs[0].CVContent)
}

func TestProcessSynthesisFailureFallsBackToComplete(t *testing.T) {
	store, sidecar, mock, svc := processingFixture()
	mock.FailNext = true

	result, err := svc.Process(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, result.ProfileReady)
	assert.True(t, result.FallbackCompleted)
	assert.True(t, result.State.Completed)

	// 用户直接放行，画像留给补偿队列
	assert.True(t, store.session.IsCompleted())
	assert.True(t, store.userCompleted)
	assert.True(t, sidecar.mirrored)
	assert.Equal(t, []int{1}, sidecar.retryAttempts)
	assert.Nil(t, store.savedProfile)
	assert.False(t, sidecar.draftCached)
}

func TestProcessPersistFailureFallsBackToComplete(t *testing.T) {
	store, sidecar, _, svc := processingFixture()
	store.saveProfileErr = assert.AnError

	result, err := svc.Process(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, result.FallbackCompleted)
	assert.True(t, store.userCompleted)
	assert.Equal(t, []int{1}, sidecar.retryAttempts)
}

func TestProcessFallbackCompletionFailureIsRetryable(t *testing.T) {
	store, sidecar, mock, svc := processingFixture()
	mock.FailNext = true
	store.completeErr = assert.AnError

	_, err := svc.Process(context.Background(), 1)
	assert.ErrorIs(t, err, errors.CompletionFailed)

	// 完成落库失败时什么都不能留下：会话未终结、没有补偿消息，
	// 否则用户会被永远卡在向导外面
	assert.False(t, store.session.IsCompleted())
	assert.False(t, store.userCompleted)
	assert.Empty(t, sidecar.retryAttempts)

	// 故障恢复后重新提交，不会撞上 WIZARD_ALREADY_COMPLETED
	store.completeErr = nil
	mock.FailNext = true

	result, err := svc.Process(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, result.FallbackCompleted)
	assert.True(t, store.userCompleted)
	assert.Equal(t, []int{1}, sidecar.retryAttempts)
}

func TestProcessFinalizeCVFailureIsFatal(t *testing.T) {
	store, _, mock, svc := processingFixture()
	store.finalizeErr = assert.AnError

	_, err := svc.Process(context.Background(), 1)
	assert.ErrorIs(t, err, errors.CVUploadFailed)

	// 定稿失败不应该触发合成，也不走兜底
	assert.Empty(t, mock.Inputs)
	assert.False(t, store.userCompleted)
	assert.False(t, store.session.IsCompleted())
}

func TestProcessStepGuards(t *testing.T) {
	t.Run("wrong step", func(t *testing.T) {
		store, _, _, svc := processingFixture()
		store.session.CurrentStep = model.StepUploadCV

		_, err := svc.Process(context.Background(), 1)
		assert.ErrorIs(t, err, errors.StepOrderViolation)
	})

	t.Run("my_style without posts", func(t *testing.T) {
		store, _, _, svc := processingFixture()
		store.session.SamplePosts = model.SamplePosts{"", "  "}

		_, err := svc.Process(context.Background(), 1)
		assert.ErrorIs(t, err, errors.SamplePostRequired)
	})
}

func TestEnrichSkipsWhenProfileExists(t *testing.T) {
	store, _, mock, svc := processingFixture()
	store.hasProfile = true

	err := svc.Enrich(context.Background(), 1, 1)

	var skip *errors.SkipMessageError
	require.ErrorAs(t, err, &skip)
	assert.Empty(t, mock.Inputs)
}

func TestEnrichSuccess(t *testing.T) {
	store, sidecar, _, svc := processingFixture()

	// 兜底完成过的会话
	completedAt := time.Now()
	store.session.CompletedAt = &completedAt

	err := svc.Enrich(context.Background(), 1, 2)
	require.NoError(t, err)

	require.NotNil(t, store.savedProfile)
	assert.True(t, store.session.HasProcessedProfile)
	assert.True(t, sidecar.draftCached)
	assert.Empty(t, sidecar.retryAttempts)
}

func TestEnrichReschedulesBelowAttemptLimit(t *testing.T) {
	_, sidecar, mock, svc := processingFixture()
	mock.FailNext = true

	err := svc.Enrich(context.Background(), 1, 1)

	var skip *errors.SkipMessageError
	require.ErrorAs(t, err, &skip)
	assert.Equal(t, []int{2}, sidecar.retryAttempts)
}

func TestEnrichStopsAtAttemptLimit(t *testing.T) {
	_, sidecar, mock, svc := processingFixture()
	mock.FailNext = true

	err := svc.Enrich(context.Background(), 1, config.Cfg.EnrichMaxAttempts)

	var skip *errors.SkipMessageError
	require.ErrorAs(t, err, &skip)
	assert.Empty(t, sidecar.retryAttempts)
}
