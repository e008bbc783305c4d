package repository

import (
	"errors"
	"fmt"
	"os"

	"gorm.io/gen"

	"PostPilot/internal/model"
	"PostPilot/storage/database"
)

// ========== User 相关查询接口 ==========

// UserQuerier 用户查询接口
type UserQuerier interface {
	// GetByAuthSubject 根据上游身份标识查询用户（登录兑换用）
	//
	// SELECT * FROM @@table WHERE auth_subject = @authSubject LIMIT 1
	GetByAuthSubject(authSubject string) (*gen.T, error)

	// GetByPublicID 根据 PublicID 查询用户（API 中 userID 是 public_id）
	//
	// SELECT * FROM @@table WHERE public_id = @publicID LIMIT 1
	GetByPublicID(publicID int64) (*gen.T, error)

	// GetByID 根据数据库主键 ID 查询用户
	//
	// SELECT * FROM @@table WHERE id = @id LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// ListMissingProfiles 查询已完成引导但还没有画像的用户（定时补扫用）
	//
	// SELECT u.* FROM @@table u
	// WHERE u.onboarding_completed = true
	//   AND NOT EXISTS (
	//     SELECT 1 FROM profile_contexts pc WHERE pc.user_id = u.id
	//   )
	// LIMIT @limit
	ListMissingProfiles(limit int) ([]*gen.T, error)

	// CountByStatus 统计各状态的用户数量
	//
	// SELECT status, COUNT(*) as count
	// FROM @@table
	// GROUP BY status
	CountByStatus() ([]gen.M, error)
}

// ========== WizardSession 相关查询接口 ==========

// WizardSessionQuerier 引导会话查询接口
type WizardSessionQuerier interface {
	// GetByUserID 查询用户的引导会话（每个用户只有一条）
	//
	// SELECT * FROM @@table WHERE user_id = @userID LIMIT 1
	GetByUserID(userID int64) (*gen.T, error)

	// ListStalled 查询停在某一步超过给定时间的会话（运营侧看漏斗）
	//
	// SELECT * FROM @@table
	// WHERE completed_at IS NULL
	//   AND current_step = @step
	//   AND updated_at < NOW() - @staleHours * INTERVAL '1 hour'
	// ORDER BY updated_at ASC
	// LIMIT @limit
	ListStalled(step int, staleHours int, limit int) ([]*gen.T, error)

	// CountByStep 统计各步骤停留的会话数量
	//
	// SELECT current_step, COUNT(*) as count
	// FROM @@table
	// WHERE completed_at IS NULL
	// GROUP BY current_step
	CountByStep() ([]gen.M, error)
}

// ========== CVAsset 相关查询接口 ==========

// CVAssetQuerier 简历文件查询接口
type CVAssetQuerier interface {
	// GetByID 根据数据库主键 ID 查询文件
	//
	// SELECT * FROM @@table WHERE id = @id LIMIT 1
	GetByID(id int64) (*gen.T, error)

	// ListStagedByUserID 查询用户的暂存文件（正常只有一条）
	//
	// SELECT * FROM @@table
	// WHERE user_id = @userID AND status = 'staged'
	// ORDER BY created_at DESC
	ListStagedByUserID(userID int64) ([]*gen.T, error)

	// DeleteStaleStaged 清理长期未被处理的暂存文件
	//
	// DELETE FROM @@table
	// WHERE status = 'staged'
	//   AND created_at < NOW() - @staleDays * INTERVAL '1 day'
	DeleteStaleStaged(staleDays int) error
}

// ========== ProfileContext 相关查询接口 ==========

// ProfileContextQuerier 画像查询接口
type ProfileContextQuerier interface {
	// GetByUserID 查询用户的画像（每个用户只有一条）
	//
	// SELECT * FROM @@table WHERE user_id = @userID LIMIT 1
	GetByUserID(userID int64) (*gen.T, error)

	// ExistsByUserID 判断用户是否已有画像
	//
	// SELECT COUNT(1) > 0 FROM @@table WHERE user_id = @userID
	ExistsByUserID(userID int64) (bool, error)
}

func Generate() error {
	if err := database.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 运行数据库迁移（确保表存在）
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migration: %w", err)
	}

	db := database.DB()
	if db == nil {
		return errors.New("database connection is nil")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           "./internal/repository/query", // 生成代码的输出路径
		ModelPkgPath:      "PostPilot/internal/model",
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true, // 字段可以为 null
		FieldCoverable:    false,
		FieldSignable:     false,
		FieldWithIndexTag: false,
		FieldWithTypeTag:  true,
	})

	g.UseDB(db)

	// 注册现有的 model，GORM Gen 会使用这些 model 而不是生成新的
	g.ApplyBasic(
		&model.User{},
		&model.WizardSession{},
		&model.CVAsset{},
		&model.ProfileContext{},
	)

	// 直接应用接口，GORM Gen 会根据接口中的类型自动匹配已注册的 model
	g.ApplyInterface(func(UserQuerier) {}, &model.User{})
	g.ApplyInterface(func(WizardSessionQuerier) {}, &model.WizardSession{})
	g.ApplyInterface(func(CVAssetQuerier) {}, &model.CVAsset{})
	g.ApplyInterface(func(ProfileContextQuerier) {}, &model.ProfileContext{})

	g.Execute()

	return nil
}

func RunGenerate() {
	if err := Generate(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate code: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Code generation completed successfully!")
}
