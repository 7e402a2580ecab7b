package service

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/Gerry1Laxy/orders-backend/internal/config"
)

// ==================== 事件类型 ====================

// 通知事件类型
const (
	EventNewOrder     = "new_order"      // 订单进入 new 状态
	EventConfirmEmail = "confirm_email"  // 注册后发送确认令牌
	EventShopUpdated  = "catalog_update" // 合作方价目表已更新
)

// ==================== Notifier 通知接口 ====================

// Notifier 通知收发方
// 核心流程只负责发出事件，投递结果不影响调用方
type Notifier interface {
	Notify(ctx context.Context, event, recipient, subject, body string)
}

// ==================== 邮件实现 ====================

// EmailNotifier 通过 SMTP 发送通知邮件
type EmailNotifier struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewEmailNotifier 创建邮件通知器
func NewEmailNotifier(cfg config.SMTPConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger}
}

// Notify 异步发送，失败只记日志，绝不阻塞或影响业务响应
func (n *EmailNotifier) Notify(ctx context.Context, event, recipient, subject, body string) {
	go func() {
		// 与请求生命周期解耦，请求返回后投递仍可继续
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := n.send(sendCtx, recipient, subject, body); err != nil {
			n.logger.Warn("通知邮件发送失败",
				zap.String("event", event),
				zap.String("recipient", recipient),
				zap.Error(err))
			return
		}
		n.logger.Info("通知邮件已发送",
			zap.String("event", event),
			zap.String("recipient", recipient))
	}()
}

func (n *EmailNotifier) send(ctx context.Context, recipient, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.cfg.From, recipient, subject, body)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, n.cfg.From, []string{recipient}, []byte(msg))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ==================== 空实现 ====================

// NopNotifier 测试与本地开发用的空通知器
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, event, recipient, subject, body string) {}
