// Package account 实现账号能力：注册、登录、令牌刷新、资料与偏好维护。
package account

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/domain/entity"
	"scribe-ai-api/internal/domain/repository"
	pkgerrors "scribe-ai-api/pkg/errors"
	"scribe-ai-api/pkg/logger"
	"scribe-ai-api/pkg/utils"
)

// Service 账号服务
type Service struct {
	userRepo repository.UserRepository
	prefRepo repository.PreferenceRepository
	jwt      *utils.JWTManager

	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewService 创建账号服务
func NewService(userRepo repository.UserRepository, prefRepo repository.PreferenceRepository, jwtCfg config.JWTConfig) *Service {
	accessTTL := jwtCfg.Expiration
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := jwtCfg.RefreshExpiration
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		userRepo:   userRepo,
		prefRepo:   prefRepo,
		jwt:        utils.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL 访问令牌有效期
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

// RefreshTTL 刷新令牌有效期
func (s *Service) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Register 注册新用户并签发令牌
func (s *Service) Register(ctx context.Context, email, password, name string) (*entity.User, *utils.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, nil, pkgerrors.ErrInternalError.WithError(err)
	}
	if exists {
		return nil, nil, pkgerrors.ErrConflict.WithDetail("email already registered")
	}

	user := entity.NewUser(email, name)
	if err := user.SetPassword(password); err != nil {
		return nil, nil, pkgerrors.ErrInternalError.WithError(err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, pkgerrors.ErrInternalError.WithError(err)
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, string(user.Role), s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, nil, pkgerrors.ErrInternalError.WithError(err)
	}
	return user, tokens, nil
}

// Login 校验邮箱密码并签发令牌
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, *utils.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, pkgerrors.ErrInternalError.WithError(err)
	}
	if user == nil || !user.CheckPassword(password) {
		return nil, nil, pkgerrors.ErrUnauthorized.WithDetail("invalid email or password")
	}
	if !user.IsActive {
		return nil, nil, pkgerrors.ErrUserInactive
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login time", "error", err.Error(), "user_id", user.ID)
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, string(user.Role), s.accessTTL, s.refreshTTL)
	if err != nil {
		return nil, nil, pkgerrors.ErrInternalError.WithError(err)
	}
	return user, tokens, nil
}

// Refresh 用刷新令牌换发新的访问令牌
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ParseToken(refreshToken)
	if err != nil {
		return "", pkgerrors.ErrTokenInvalid
	}
	if claims.Type != "refresh" {
		return "", pkgerrors.ErrTokenInvalid.WithDetail("not a refresh token")
	}

	// 刷新时复核用户仍然有效
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", pkgerrors.ErrInternalError.WithError(err)
	}
	if user == nil || !user.IsActive {
		return "", pkgerrors.ErrUserInactive
	}

	return s.jwt.GenerateToken(user.ID, string(user.Role), "access", s.accessTTL)
}

// Profile 获取当前用户资料
func (s *Service) Profile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.ErrInternalError.WithError(err)
	}
	if user == nil {
		return nil, pkgerrors.ErrNotFound.WithDetail("user not found")
	}
	return user, nil
}

// UpdateProfile 更新当前用户资料
func (s *Service) UpdateProfile(ctx context.Context, user *entity.User) error {
	if err := s.userRepo.Update(ctx, user); err != nil {
		return pkgerrors.ErrInternalError.WithError(err)
	}
	return nil
}

// ChangePassword 修改密码，需先校验旧密码
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if !user.CheckPassword(oldPassword) {
		return pkgerrors.ErrUnauthorized.WithDetail("old password does not match")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return pkgerrors.ErrInternalError.WithError(err)
	}
	return s.UpdateProfile(ctx, user)
}

// GetPreferences 获取用户偏好，没有记录时返回空对象
func (s *Service) GetPreferences(ctx context.Context, userID string) (*entity.UserPreference, error) {
	pref, err := s.prefRepo.Get(ctx, userID)
	if err != nil {
		return nil, pkgerrors.ErrInternalError.WithError(err)
	}
	if pref == nil {
		pref = &entity.UserPreference{UserID: userID, Content: "{}"}
	}
	return pref, nil
}

// PutPreferences 写入用户偏好（整体覆盖）。内容必须是合法 JSON，服务端不解析其结构。
func (s *Service) PutPreferences(ctx context.Context, userID, content string) error {
	if !json.Valid([]byte(content)) {
		return pkgerrors.ErrInvalidParam.WithDetail("preferences content must be valid JSON")
	}
	pref := &entity.UserPreference{
		UserID:    userID,
		Content:   content,
		UpdatedAt: time.Now(),
	}
	if err := s.prefRepo.Put(ctx, pref); err != nil {
		return pkgerrors.ErrInternalError.WithError(err)
	}
	return nil
}
