package task

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Gerry1Laxy/orders-backend/internal/repository"
)

// 确认令牌有效期，超过后由定时任务清理
const confirmTokenTTL = 7 * 24 * time.Hour

// ==================== TokenCleanupTask 令牌清理任务 ====================

// TokenCleanupTask 定时清理过期的邮箱确认令牌
type TokenCleanupTask struct {
	tokenRepo repository.ConfirmTokenRepository
	cron      *cron.Cron
	logger    *zap.Logger
}

// NewTokenCleanupTask 创建令牌清理任务
func NewTokenCleanupTask(tokenRepo repository.ConfirmTokenRepository, logger *zap.Logger) *TokenCleanupTask {
	return &TokenCleanupTask{
		tokenRepo: tokenRepo,
		cron:      cron.New(cron.WithSeconds()), // 支持秒级控制
		logger:    logger,
	}
}

// Start 启动定时任务
func (t *TokenCleanupTask) Start() error {
	// 每天凌晨 3 点清理一次
	_, err := t.cron.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		t.cleanupJob(ctx)
	})
	if err != nil {
		return err
	}

	t.cron.Start()
	t.logger.Info("确认令牌清理任务已启动 (每天 03:00)")
	return nil
}

// Stop 停止定时任务
func (t *TokenCleanupTask) Stop() {
	t.cron.Stop()
}

func (t *TokenCleanupTask) cleanupJob(ctx context.Context) {
	before := time.Now().Add(-confirmTokenTTL)
	removed, err := t.tokenRepo.DeleteExpired(ctx, before)
	if err != nil {
		t.logger.Warn("过期令牌清理失败", zap.Error(err))
		return
	}
	if removed > 0 {
		t.logger.Info("过期令牌已清理", zap.Int64("removed", removed))
	}
}
