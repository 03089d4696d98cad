package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/cache"
	"github.com/yourusername/video-sharing-platform/internal/models"
	"github.com/yourusername/video-sharing-platform/internal/repository"
	"github.com/yourusername/video-sharing-platform/internal/views"
)

// MediaHost uploads local temp files to the external media store. Both
// methods remove the temp file regardless of outcome.
type MediaHost interface {
	UploadImage(ctx context.Context, localPath string) (string, error)
	UploadVideo(ctx context.Context, localPath string) (string, float64, error)
}

// ProfileCache caches viewer-specific profile read models.
type ProfileCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{})
	DeleteByPattern(ctx context.Context, pattern string)
}

// TokenPair is issued at login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// RegisterInput carries the registration form plus local temp paths of the
// uploaded images.
type RegisterInput struct {
	Username       string
	FullName       string
	Email          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

type UserService struct {
	users     *repository.UserRepository
	composer  *views.Composer
	media     MediaHost
	jwt       *JWTService
	passwords *PasswordService
	cache     ProfileCache
	metrics   EngagementMetrics
	logger    *logrus.Logger
}

func NewUserService(users *repository.UserRepository, composer *views.Composer, media MediaHost, jwtSvc *JWTService, passwords *PasswordService, profileCache ProfileCache, metrics EngagementMetrics, logger *logrus.Logger) *UserService {
	return &UserService{
		users:     users,
		composer:  composer,
		media:     media,
		jwt:       jwtSvc,
		passwords: passwords,
		cache:     profileCache,
		metrics:   metrics,
		logger:    logger,
	}
}

// Register creates an account, uploading the avatar (required) and cover
// image (optional) to the media host first.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	const op = "service/user/Register"

	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if in.Username == "" || in.Email == "" || in.FullName == "" || in.Password == "" {
		return nil, fmt.Errorf("%s: all fields are required: %w", op, ErrInvalidInput)
	}
	if in.AvatarPath == "" {
		return nil, fmt.Errorf("%s: avatar image is required: %w", op, ErrInvalidInput)
	}

	if existing, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%s: user already exists: %w", op, ErrInvalidInput)
	} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.WithError(err).Error("user existence check failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	hash, err := s.passwords.HashPassword(in.Password)
	if err != nil {
		s.logger.WithError(err).Error("password hash failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	avatarURL, err := s.media.UploadImage(ctx, in.AvatarPath)
	if err != nil {
		s.logger.WithError(err).Error("avatar upload failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	var coverImageURL string
	if in.CoverImagePath != "" {
		coverImageURL, err = s.media.UploadImage(ctx, in.CoverImagePath)
		if err != nil {
			s.logger.WithError(err).Error("cover image upload failed")
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
	}

	user := &models.User{
		Username:      in.Username,
		FullName:      in.FullName,
		Email:         in.Email,
		PasswordHash:  hash,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("%s: user already exists: %w", op, ErrInvalidInput)
		}
		s.logger.WithError(err).Error("user create failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return user, nil
}

// Login verifies credentials against either username or email and issues a
// token pair. The refresh token is persisted for rotation.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	const op = "service/user/Login"

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil, fmt.Errorf("%s: credentials are required: %w", op, ErrInvalidInput)
	}

	user, err := s.users.FindByEmail(ctx, identifier)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.users.FindByUsername(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		s.logger.WithError(err).Error("user lookup failed")
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !s.passwords.CheckPassword(password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return user, pair, nil
}

// Refresh rotates the token pair. The presented refresh token must match
// the one stored for the user.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "service/user/Refresh"

	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}
		s.logger.WithError(err).Error("user lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, fmt.Errorf("%s: refresh token revoked: %w", op, ErrUnauthorized)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return pair, nil
}

// Logout clears the stored refresh token.
func (s *UserService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	const op = "service/user/Logout"

	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("refresh token clear failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, oldPassword, newPassword string) error {
	const op = "service/user/ChangePassword"

	if newPassword == "" {
		return fmt.Errorf("%s: new password is required: %w", op, ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("user lookup failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if !s.passwords.CheckPassword(oldPassword, user.PasswordHash) {
		return fmt.Errorf("%s: wrong password: %w", op, ErrUnauthorized)
	}

	hash, err := s.passwords.HashPassword(newPassword)
	if err != nil {
		s.logger.WithError(err).Error("password hash failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.WithError(err).Error("password update failed")
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return nil
}

func (s *UserService) GetByID(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	const op = "service/user/GetByID"

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("user lookup failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return user, nil
}

func (s *UserService) UpdateAccount(ctx context.Context, userID primitive.ObjectID, fullname, email string) (*models.User, error) {
	const op = "service/user/UpdateAccount"

	fullname = strings.TrimSpace(fullname)
	email = strings.TrimSpace(email)
	if fullname == "" || email == "" {
		return nil, fmt.Errorf("%s: fullname and email are required: %w", op, ErrInvalidInput)
	}

	if err := s.users.UpdateAccount(ctx, userID, fullname, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("account update failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return s.GetByID(ctx, userID)
}

// UpdateAvatar uploads a new avatar image and stores its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, localPath string) (*models.User, error) {
	return s.updateImage(ctx, "service/user/UpdateAvatar", userID, "avatar_url", localPath)
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID primitive.ObjectID, localPath string) (*models.User, error) {
	return s.updateImage(ctx, "service/user/UpdateCoverImage", userID, "cover_image_url", localPath)
}

func (s *UserService) updateImage(ctx context.Context, op string, userID primitive.ObjectID, field, localPath string) (*models.User, error) {
	if localPath == "" {
		return nil, fmt.Errorf("%s: image file is required: %w", op, ErrInvalidInput)
	}

	url, err := s.media.UploadImage(ctx, localPath)
	if err != nil {
		s.logger.WithError(err).Error("image upload failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if err := s.users.UpdateImageURL(ctx, userID, field, url); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("image url update failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.DeleteByPattern(ctx, cache.ChannelProfilePattern(user.Username))
	}
	return user, nil
}

// ChannelProfile returns the channel view for a username. viewerID may be
// primitive.NilObjectID for anonymous viewers.
func (s *UserService) ChannelProfile(ctx context.Context, username string, viewerID primitive.ObjectID) (*models.ChannelProfile, error) {
	const op = "service/user/ChannelProfile"

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, fmt.Errorf("%s: username is required: %w", op, ErrInvalidInput)
	}

	key := cache.ChannelProfileKey(username, viewerID.Hex())
	if s.cache != nil {
		var cached models.ChannelProfile
		if s.cache.Get(ctx, key, &cached) {
			if s.metrics != nil {
				s.metrics.RecordCacheHit("channel_profile")
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("channel_profile")
		}
	}

	profile, err := s.composer.ChannelProfile(ctx, username, viewerID)
	if err != nil {
		if errors.Is(err, views.ErrChannelNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("channel profile view failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, profile)
	}
	return profile, nil
}

// WatchHistory returns the user's resolved watch history in stored order.
func (s *UserService) WatchHistory(ctx context.Context, userID primitive.ObjectID) ([]models.VideoWithOwner, error) {
	const op = "service/user/WatchHistory"

	history, err := s.composer.WatchHistory(ctx, userID)
	if err != nil {
		if errors.Is(err, views.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		s.logger.WithError(err).Error("watch history view failed")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	return history, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, expiresIn, err := s.jwt.GenerateAccessToken(user.ID.Hex(), user.Email, user.Username)
	if err != nil {
		s.logger.WithError(err).Error("access token generation failed")
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID.Hex(), user.Email, user.Username)
	if err != nil {
		s.logger.WithError(err).Error("refresh token generation failed")
		return nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		s.logger.WithError(err).Error("refresh token persist failed")
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}
