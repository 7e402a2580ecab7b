package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Gerry1Laxy/orders-backend/internal/api/dto"
	"github.com/Gerry1Laxy/orders-backend/internal/middleware"
	"github.com/Gerry1Laxy/orders-backend/internal/model"
	"github.com/Gerry1Laxy/orders-backend/internal/repository"
	"github.com/Gerry1Laxy/orders-backend/pkg/utils"
)

// 邮箱确认令牌长度
const confirmTokenLength = 64

// ==================== UserService 用户服务 ====================

// UserService 用户服务：注册、邮箱确认、登录、资料与联系方式
type UserService struct {
	userRepo    repository.UserRepository
	contactRepo repository.ContactRepository
	tokenRepo   repository.ConfirmTokenRepository
	notifier    Notifier
}

// NewUserService 创建用户服务
func NewUserService(
	userRepo repository.UserRepository,
	contactRepo repository.ContactRepository,
	tokenRepo repository.ConfirmTokenRepository,
	notifier Notifier,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		tokenRepo:   tokenRepo,
		notifier:    notifier,
	}
}

// ==================== 注册与确认 ====================

// Register 注册新用户
// 成功后账号处于未激活状态，并异步发送邮箱确认令牌
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userType := req.Type
	if userType == "" {
		userType = model.UserTypeBuyer
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Type:      userType,
		IsActive:  false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokenStr, err := utils.GenerateRandomString(confirmTokenLength)
	if err != nil {
		return nil, err
	}
	token := &model.ConfirmEmailToken{UserID: user.ID, Token: tokenStr}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, EventConfirmEmail, user.Email,
		fmt.Sprintf("Confirm email for %s", user.Username), tokenStr)

	info := toUserInfo(user)
	return &info, nil
}

// ConfirmEmail 校验确认令牌并激活账号，令牌一次性使用
func (s *UserService) ConfirmEmail(ctx context.Context, req *dto.ConfirmEmailRequest) error {
	token, err := s.tokenRepo.GetByEmailAndToken(ctx, req.Email, req.Token)
	if err != nil {
		return err
	}
	if token == nil {
		return ErrConfirmTokenBad
	}

	if err := s.userRepo.Activate(ctx, token.UserID); err != nil {
		return err
	}
	return s.tokenRepo.Delete(ctx, token.ID)
}

// ==================== 登录 ====================

// Login 邮箱+密码登录，签发 Token 对
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Email, user.Type)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
		User:         toUserInfo(user),
	}, nil
}

// RefreshToken 用 Refresh Token 换新 Token 对
func (s *UserService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Email, user.Type)
	if err != nil {
		return nil, err
	}

	cfg := middleware.GetJWTConfig()
	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(cfg.AccessTokenTTL),
	}, nil
}

// ==================== 资料 ====================

// GetProfile 获取当前用户资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	info := toUserInfo(user)
	return &info, nil
}

// UpdateProfile 更新当前用户资料，nil 字段保持不变
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// ==================== 联系方式 ====================

// ListContacts 当前用户全部联系方式
func (s *UserService) ListContacts(ctx context.Context, userID int64) ([]dto.ContactVO, error) {
	contacts, err := s.contactRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	vos := make([]dto.ContactVO, len(contacts))
	for i, c := range contacts {
		vos[i] = dto.ContactVO{ID: c.ID, Type: c.Type, Value: c.Value}
	}
	return vos, nil
}

// CreateContact 新增联系方式
func (s *UserService) CreateContact(ctx context.Context, userID int64, req *dto.ContactRequest) (*dto.ContactVO, error) {
	contact := &model.Contact{UserID: userID, Type: req.Type, Value: req.Value}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return &dto.ContactVO{ID: contact.ID, Type: contact.Type, Value: contact.Value}, nil
}

// UpdateContact 更新联系方式，只允许修改属于自己的记录
func (s *UserService) UpdateContact(ctx context.Context, userID int64, req *dto.ContactRequest) (*dto.ContactVO, error) {
	contact, err := s.contactRepo.GetByIDForUser(ctx, req.ID, userID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}

	contact.Type = req.Type
	contact.Value = req.Value
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return &dto.ContactVO{ID: contact.ID, Type: contact.Type, Value: contact.Value}, nil
}

// DeleteContact 删除联系方式
func (s *UserService) DeleteContact(ctx context.Context, userID, contactID int64) error {
	contact, err := s.contactRepo.GetByIDForUser(ctx, contactID, userID)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrContactNotFound
	}
	return s.contactRepo.Delete(ctx, contactID, userID)
}

// ==================== 辅助 ====================

func toUserInfo(user *model.User) dto.UserInfo {
	return dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Type:      user.Type,
		IsActive:  user.IsActive,
	}
}
