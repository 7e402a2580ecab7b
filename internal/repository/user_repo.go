package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Gerry1Laxy/orders-backend/internal/model"
)

// ==================== UserRepository 用户仓库 ====================

// UserRepository 用户仓库接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	Activate(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户，不存在时返回 (nil, nil)
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户，不存在时返回 (nil, nil)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("password", hashedPassword).Error
}

// Activate 邮箱确认通过后激活账号
func (r *userRepository) Activate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("is_active", true).Error
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// ==================== ContactRepository 联系方式仓库 ====================

// ContactRepository 联系方式仓库接口
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	GetByIDForUser(ctx context.Context, id, userID int64) (*model.Contact, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id, userID int64) error
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建联系方式仓库
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// GetByIDForUser 按归属查询，联系方式只对其主人可见
func (r *contactRepository) GetByIDForUser(ctx context.Context, id, userID int64) (*model.Contact, error) {
	var contact model.Contact
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListByUser(ctx context.Context, userID int64) ([]model.Contact, error) {
	var contacts []model.Contact
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id, userID int64) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Contact{}).Error
}

// ==================== ConfirmTokenRepository 邮箱确认令牌仓库 ====================

// ConfirmTokenRepository 邮箱确认令牌仓库接口
type ConfirmTokenRepository interface {
	Create(ctx context.Context, token *model.ConfirmEmailToken) error
	GetByEmailAndToken(ctx context.Context, email, token string) (*model.ConfirmEmailToken, error)
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type confirmTokenRepository struct {
	db *gorm.DB
}

// NewConfirmTokenRepository 创建邮箱确认令牌仓库
func NewConfirmTokenRepository(db *gorm.DB) ConfirmTokenRepository {
	return &confirmTokenRepository{db: db}
}

func (r *confirmTokenRepository) Create(ctx context.Context, token *model.ConfirmEmailToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *confirmTokenRepository) GetByEmailAndToken(ctx context.Context, email, token string) (*model.ConfirmEmailToken, error) {
	var t model.ConfirmEmailToken
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = confirm_email_tokens.user_id").
		Where("users.email = ? AND confirm_email_tokens.token = ?", email, token).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *confirmTokenRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ConfirmEmailToken{}, id).Error
}

// DeleteExpired 清理过期令牌（由定时任务调用）
func (r *confirmTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&model.ConfirmEmailToken{})
	return result.RowsAffected, result.Error
}
