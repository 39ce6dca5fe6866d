package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/cache"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/mailer"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	resetCodeTTL    = 10 * time.Minute
	resetCodeLength = 6
)

type AuthService struct {
	UserRepo UserRepo
	Cfg      *config.Config
	Codes    cache.CodeStore
	Notifier mailer.Notifier
}

func NewAuthService(userRepo UserRepo, cfg *config.Config, codes cache.CodeStore, notifier mailer.Notifier) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
		Codes:    codes,
		Notifier: notifier,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" || user.Role == model.Admin {
		// admins are seeded, never self-registered
		user.Role = model.Student
	}
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}
	if user.Disabled {
		return "", fmt.Errorf("account disabled: %w", util.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("last login update failed", zap.Uint("user", user.ID), zap.Error(err))
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}

// RequestPasswordReset issues a short-lived OTP through the injected
// code store and notifier. An unknown email is reported as success to
// avoid account enumeration.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	code := util.GenerateOTP(resetCodeLength)
	if err := s.Codes.Set(ctx, email, code, resetCodeTTL); err != nil {
		return err
	}

	body := fmt.Sprintf("Hi %s,\n\nYour password reset code is: %s\nIt expires in 10 minutes.", user.Name, code)
	if err := s.Notifier.Send(email, "Password reset code", body); err != nil {
		logger.Log.Error("reset code delivery failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// ResetPassword verifies the OTP and rotates the password. The code is
// single-use either way.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	stored, ok, err := s.Codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if !ok || stored != code {
		return util.ErrInvalidResetCode
	}

	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInvalidResetCode
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(user.ID, string(hashed)); err != nil {
		return err
	}

	if err := s.Codes.Delete(ctx, email); err != nil {
		logger.Log.Warn("reset code cleanup failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}
