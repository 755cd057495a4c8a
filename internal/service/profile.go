package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/media"
	"github.com/sakif/dailystretch/internal/mirror"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

// MaxPhotoBytes is the upload size limit for profile photos: 5 MiB.
const MaxPhotoBytes = 5 * 1024 * 1024

// photoExt maps each accepted declared content type to the extension the
// photo is stored (and later served) under. The stored extension decides the
// Content-Type the media file server responds with, so it must come from the
// validated type, never from the client-supplied filename.
var photoExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// allowedPhotoExts is the fallback whitelist for uploads with no declared
// content type. Some clients don't set one, and rejecting them outright would
// break uploads that are otherwise fine, so the filename extension stands in
// when it names one of the accepted image formats.
var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ProfileService handles profile reads, edits, and photo uploads, and keeps
// the external mirror loosely in sync.
type ProfileService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	media    *media.Store
	mirror   *mirror.Client
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService with all required dependencies.
func NewProfileService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	mediaStore *media.Store,
	mirrorClient *mirror.Client,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		users:    users,
		profiles: profiles,
		media:    mediaStore,
		mirror:   mirrorClient,
		logger:   logger,
	}
}

// Get returns the user's profile, creating an empty one on first access.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, _, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/profile: loading profile for user %s: %w", userID, err)
	}
	return profile, nil
}

// PhotoURL maps a profile's stored photo path to its public URL ("" when no
// photo is set).
func (s *ProfileService) PhotoURL(profile *model.Profile) string {
	return s.media.URL(profile.PhotoPath)
}

// ProfileUpdate is a partial edit: nil fields are left unchanged. Username
// edits land on the account record; bio, date of birth, and the optional
// photo on the profile.
type ProfileUpdate struct {
	Username    *string
	Bio         *string
	DateOfBirth *time.Time
	Photo       *PhotoUpload
}

// Update applies a partial profile edit, including an optional new photo,
// then best-effort syncs the mirror once with the final state.
//
// A username change re-checks uniqueness excluding the caller's own row —
// "changing" your username to itself must not count as a collision. A taken
// username comes back as a validation error with code username_taken.
func (s *ProfileService) Update(ctx context.Context, userID string, upd ProfileUpdate) (*model.User, *model.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("service/profile: loading user %s: %w", userID, err)
	}

	profile, _, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("service/profile: loading profile for user %s: %w", userID, err)
	}

	if upd.Username != nil && *upd.Username != "" && *upd.Username != user.Username {
		taken, err := s.users.UsernameTaken(ctx, *upd.Username, userID)
		if err != nil {
			return nil, nil, fmt.Errorf("service/profile: checking username: %w", err)
		}
		if taken {
			return nil, nil, apperror.ValidationCode(
				apperror.CodeUsernameTaken, "username", "Username already taken!")
		}

		user.Username = *upd.Username
		if err := s.users.Update(ctx, user); err != nil {
			return nil, nil, fmt.Errorf("service/profile: saving username for user %s: %w", userID, err)
		}
	}

	if upd.Bio != nil {
		profile.Bio = *upd.Bio
	}
	if upd.DateOfBirth != nil {
		profile.DateOfBirth = upd.DateOfBirth
	}
	if upd.Photo != nil {
		rel, err := s.storePhoto(*upd.Photo)
		if err != nil {
			return nil, nil, err
		}
		profile.PhotoPath = rel
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("service/profile: saving profile for user %s: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.String("userID", userID))

	s.syncMirror(ctx, user, profile)

	return user, profile, nil
}

// PhotoUpload is an uploaded photo as the handler received it. Size below
// zero means "unknown length" — the size check is skipped then, and the
// handler's request body limit is the backstop.
type PhotoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	File        io.Reader
}

// storePhoto validates an upload and writes it to the media store, returning
// the stored relative path. Validation errors carry machine-readable codes
// (no_file, invalid_type, file_too_large) because the upload widget switches
// on them.
func (s *ProfileService) storePhoto(up PhotoUpload) (string, error) {
	if up.File == nil {
		return "", apperror.ValidationCode(apperror.CodeNoFile, "profile_picture", "No file provided")
	}

	ext := photoExt[up.ContentType]
	if up.ContentType != "" && ext == "" {
		return "", apperror.ValidationCode(apperror.CodeInvalidType, "profile_picture",
			fmt.Sprintf("Unsupported image type %q, use JPEG, PNG, GIF, or WebP", up.ContentType))
	}
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(up.Filename))
		if !allowedPhotoExts[ext] {
			return "", apperror.ValidationCode(apperror.CodeInvalidType, "profile_picture",
				"Cannot tell the image type, use JPEG, PNG, GIF, or WebP")
		}
	}

	if up.Size >= 0 && up.Size > MaxPhotoBytes {
		return "", apperror.ValidationCode(apperror.CodeFileTooLarge, "profile_picture",
			"Image exceeds the 5 MiB limit")
	}

	rel, err := s.media.SavePhoto(ext, up.File)
	if err != nil {
		return "", apperror.SaveFailed(err)
	}
	return rel, nil
}

// UploadPhoto validates, stores, and records a new profile photo, returning
// its public URL. The mirror is synced best-effort afterwards. Storage
// failures come back as save_failed with the underlying error text.
func (s *ProfileService) UploadPhoto(ctx context.Context, userID string, up PhotoUpload) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("service/profile: loading user %s: %w", userID, err)
	}

	profile, _, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("service/profile: loading profile for user %s: %w", userID, err)
	}

	rel, err := s.storePhoto(up)
	if err != nil {
		return "", err
	}

	profile.PhotoPath = rel
	if err := s.profiles.Update(ctx, profile); err != nil {
		return "", apperror.SaveFailed(err)
	}

	s.logger.Info("profile photo uploaded",
		slog.String("userID", userID),
		slog.String("path", rel),
	)

	s.syncMirror(ctx, user, profile)

	return s.media.URL(rel), nil
}

// syncMirror pushes the current profile state to the external mirror.
// The result is logged here and never propagated, so a mirror outage can't
// turn a successful save into a failed response.
func (s *ProfileService) syncMirror(ctx context.Context, user *model.User, profile *model.Profile) {
	err := s.mirror.SyncProfile(ctx, user.Email, user.Username, profile.Bio, s.media.URL(profile.PhotoPath))
	if err != nil {
		s.logger.Warn("mirror sync failed",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
	}
}
