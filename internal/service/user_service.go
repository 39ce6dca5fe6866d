package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo UserRepo
	Storage  FileStore
}

func NewUserService(userRepo UserRepo, storage FileStore) *UserService {
	return &UserService{UserRepo: userRepo, Storage: storage}
}

type ProfileInput struct {
	Name   string
	Bio    string
	Avatar string
}

func (s *UserService) UpdateProfile(claims *util.Claims, in ProfileInput) (*model.User, error) {
	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", claims.UserID, util.ErrNotFound)
		}
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar stores the image and points the profile at it. The old
// avatar object is removed best effort.
func (s *UserService) UploadAvatar(ctx context.Context, claims *util.Claims, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return "", fmt.Errorf("%v: %w", err, util.ErrValidation)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ref, err := s.Storage.Store(ctx, util.FolderImages, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		return "", err
	}
	if user.Avatar != "" {
		s.Storage.Delete(ctx, user.Avatar)
	}
	user.Avatar = ref
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *UserService) List(page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(page, limit)
}

func (s *UserService) SetDisabled(userID uint, disabled bool) error {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %d: %w", userID, util.ErrNotFound)
		}
		return err
	}
	return s.UserRepo.SetDisabled(userID, disabled)
}
