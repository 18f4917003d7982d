// Package admin 提供数据管理后台服务
package admin

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/cache"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/crypto"
	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
)

// AdminID 后台只有一个由配置定义的管理员
const AdminID int64 = 1

// 登录结果指标
const (
	loginSuccess = "success"
	loginFailed  = "failed"
	loginLocked  = "locked"
)

// AuthService 管理员认证服务
type AuthService struct {
	cfg        *config.AdminConfig
	jwtManager *jwt.Manager
	redis      *redis.Client
	metrics    *metrics.Metrics
}

// NewAuthService 创建管理员认证服务，redisClient 为 nil 时不做登录锁定和令牌注销
func NewAuthService(cfg *config.AdminConfig, jwtManager *jwt.Manager, redisClient *redis.Client, m *metrics.Metrics) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtManager: jwtManager,
		redis:      redisClient,
		metrics:    m,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Username string     `json:"username"`
	Token    *jwt.Token `json:"token"`
}

// Login 校验用户名和 bcrypt 密码并签发令牌，连续失败达到上限后锁定
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	log := logger.WithContext(ctx).With(zap.String("username", req.Username), logger.IP(req.IP))
	lockKey := cache.BuildKey(cache.KeyPrefixLoginLock, req.Username)
	failKey := cache.BuildKey(cache.KeyPrefixLoginFail, req.Username)

	if s.redis != nil {
		ttl, err := s.redis.TTL(ctx, lockKey).Result()
		if err != nil {
			return nil, commonErrors.ErrCacheError.WithError(err)
		}
		if ttl > 0 {
			s.metrics.RecordAdminLogin(loginLocked)
			return nil, lockedError(ttl)
		}
	}

	// 两个比较都执行，避免通过耗时判断用户名是否正确
	userOK := crypto.SecureEqual(req.Username, s.cfg.Username)
	passOK := crypto.VerifyPassword(req.Password, s.cfg.PasswordHash)
	if !userOK || !passOK {
		return nil, s.recordFailure(ctx, log, failKey, lockKey)
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, failKey).Err(); err != nil {
			log.Warn("clear login failures failed", zap.Error(err))
		}
	}

	token, err := s.jwtManager.GenerateToken(AdminID, s.cfg.Username)
	if err != nil {
		return nil, commonErrors.ErrInternalError.WithError(err)
	}

	s.metrics.RecordAdminLogin(loginSuccess)
	log.Info("admin logged in")
	return &LoginResponse{Username: s.cfg.Username, Token: token}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, log *zap.Logger, failKey, lockKey string) error {
	s.metrics.RecordAdminLogin(loginFailed)
	log.Warn("admin login failed")

	if s.redis == nil || s.cfg.MaxLoginAttempts <= 0 {
		return commonErrors.ErrPasswordError
	}

	window := s.cfg.LockoutDuration()
	n, err := cache.IncrWithExpire(ctx, s.redis, failKey, window)
	if err != nil {
		log.Warn("count login failure failed", zap.Error(err))
		return commonErrors.ErrPasswordError
	}
	if n < int64(s.cfg.MaxLoginAttempts) {
		return commonErrors.ErrPasswordError.WithMessage(
			commonErrors.ErrPasswordError.Message + "，剩余尝试次数 " + strconv.FormatInt(int64(s.cfg.MaxLoginAttempts)-n, 10))
	}

	pipe := s.redis.TxPipeline()
	pipe.Set(ctx, lockKey, 1, window)
	pipe.Del(ctx, failKey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn("lock admin account failed", zap.Error(err))
	}
	log.Warn("admin account locked", zap.Duration("lockout", window))
	return lockedError(window)
}

// Logout 注销令牌，令牌 ID 保存到过期为止
func (s *AuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.redis == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	key := cache.BuildKey(cache.KeyPrefixRevokedToken, claims.ID)
	if err := s.redis.Set(ctx, key, 1, ttl).Err(); err != nil {
		return commonErrors.ErrCacheError.WithError(err)
	}
	logger.WithContext(ctx).Info("admin logged out", zap.String("username", claims.Username))
	return nil
}

// IsRevoked 判断令牌是否已注销
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.redis == nil || tokenID == "" {
		return false, nil
	}
	n, err := s.redis.Exists(ctx, cache.BuildKey(cache.KeyPrefixRevokedToken, tokenID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}
	return n > 0, nil
}

func lockedError(ttl time.Duration) error {
	minutes := int64((ttl + time.Minute - 1) / time.Minute)
	return commonErrors.ErrAccountLocked.WithMessage("登录失败次数过多，请 " + strconv.FormatInt(minutes, 10) + " 分钟后再试")
}
