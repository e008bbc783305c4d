package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"PostPilot/internal/cache"
	"PostPilot/internal/model"
	"PostPilot/internal/model/dto"
	"PostPilot/pkg/errors"
	"PostPilot/pkg/logger"
	"PostPilot/pkg/snowflake"
	"PostPilot/pkg/token"
	"PostPilot/storage/database"
)

var (
	authService *AuthService
	authOnce    sync.Once
)

func Auth() *AuthService {
	authOnce.Do(func() {
		authService = &AuthService{}
	})
	return authService
}

type AuthService struct{}

// Exchange 外部身份提供方校验过的 subject 换本站 token。
// 首次见到的 subject 创建用户并开一条向导会话
func (s *AuthService) Exchange(ctx context.Context, authSubject, nickname string) (*dto.TokenPairData, error) {
	authSubject = strings.TrimSpace(authSubject)
	if authSubject == "" {
		return nil, errors.AuthSubjectInvalid
	}

	db := database.DB()
	isNewUser := false

	var user model.User
	err := db.WithContext(ctx).Where("auth_subject = ?", authSubject).First(&user).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to query user: %w", err)
		}

		publicID, err := snowflake.NextID(snowflake.GeneratorTypeUser)
		if err != nil {
			return nil, fmt.Errorf("failed to generate user ID: %w", err)
		}

		user = model.User{
			PublicID:             publicID,
			AuthSubject:          authSubject,
			Nickname:             nickname,
			Status:               model.UserStatusOnboarding,
			PostTypeDistribution: model.DefaultPostTypeDistribution(),
			HashtagCount:         model.DefaultHashtagCount,
		}

		// 用户和向导会话一起建，保证进入向导时必有会话
		txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			session := model.WizardSession{
				UserID:      user.ID,
				CurrentStep: model.StepAccountType,
				SamplePosts: model.SamplePosts{},
			}
			return tx.Create(&session).Error
		})
		if txErr != nil {
			return nil, fmt.Errorf("failed to create user: %w", txErr)
		}

		isNewUser = true
		logger.Logger.Info("New user created",
			zap.Int64("public_id", publicID),
		)
	}

	// token 里只带对外的雪花 ID，内部主键不出门
	uid := strconv.FormatInt(user.PublicID, 10)
	accessToken, refreshToken, expiresIn, err := token.GenerateTokenPair(uid)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, uid, refreshToken); err != nil {
		logger.Logger.Warn("Failed to store refresh token", zap.Error(err))
	}

	return &dto.TokenPairData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		IsNewUser:    isNewUser,
	}, nil
}

// Refresh 刷新 token 对。refresh token 必须与 Redis 里存的一致
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPairData, error) {
	uid, err := token.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized
	}

	if !cache.ValidateRefreshTokenExists(ctx, uid, refreshToken) {
		return nil, errors.Unauthorized
	}

	accessToken, newRefreshToken, expiresIn, err := token.GenerateTokenPair(uid)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	if err := cache.SetRefreshToken(ctx, uid, newRefreshToken); err != nil {
		logger.Logger.Warn("Failed to rotate refresh token", zap.Error(err))
	}

	return &dto.TokenPairData{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// GetUser 按内部 ID 取用户
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	err := database.DB().WithContext(ctx).First(&user, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

// GetUserByPublicID 按对外雪花 ID 取用户，鉴权中间件解析 token 时用
func (s *AuthService) GetUserByPublicID(ctx context.Context, publicID int64) (*model.User, error) {
	var user model.User
	err := database.DB().WithContext(ctx).Where("public_id = ?", publicID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.UserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}
