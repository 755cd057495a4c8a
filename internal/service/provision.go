// Package service contains the business logic layer: validation, permission
// rules, and orchestration between repositories, media storage, and the
// external mirror. Handlers parse HTTP and delegate here; nothing in this
// package imports net/http.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/dailystretch/internal/media"
	"github.com/sakif/dailystretch/internal/repository"
)

// Provisioner creates the dependent records every account needs: one
// settings row and one profile row, plus a default profile photo.
//
// WHY AN EXPLICIT CALL AND NOT A DB TRIGGER OR EVENT HOOK?
// The registration service calls Provision directly after creating the
// account. That keeps the dependency visible in the call chain — you can
// read Register top to bottom and see everything account creation entails —
// and lets tests invoke provisioning in isolation.
//
// Provision is idempotent: both record creations are get-or-create, and the
// photo step is skipped when a photo is already set. Calling it twice for
// the same account is a no-op, which also covers the lazy get-or-create
// paths scattered through the read handlers.
type Provisioner struct {
	profiles     repository.ProfileRepository
	settings     repository.SettingsRepository
	media        *media.Store
	defaultPhoto string // path to the bundled default avatar; "" disables the photo step
	logger       *slog.Logger
}

// NewProvisioner creates a Provisioner. defaultPhoto may be empty when no
// default avatar is bundled.
func NewProvisioner(
	profiles repository.ProfileRepository,
	settings repository.SettingsRepository,
	mediaStore *media.Store,
	defaultPhoto string,
	logger *slog.Logger,
) *Provisioner {
	return &Provisioner{
		profiles:     profiles,
		settings:     settings,
		media:        mediaStore,
		defaultPhoto: defaultPhoto,
		logger:       logger,
	}
}

// Provision ensures the settings and profile rows exist for the account and
// best-effort installs the default profile photo.
//
// ERROR CONTRACT:
// Failure to create either record is a real error — the account would be
// half-provisioned. Failure of the photo step is logged and swallowed: a
// missing default image must never fail a registration, the profile just
// starts without a picture.
func (p *Provisioner) Provision(ctx context.Context, userID string) error {
	if _, _, err := p.settings.GetOrCreate(ctx, userID); err != nil {
		return fmt.Errorf("service/provision: creating settings for user %s: %w", userID, err)
	}

	profile, created, err := p.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("service/provision: creating profile for user %s: %w", userID, err)
	}

	if created {
		p.logger.Info("account provisioned",
			slog.String("userID", userID),
		)
	}

	// Best-effort default photo. Only on a photo-less profile so a re-run
	// never clobbers an uploaded picture.
	if p.defaultPhoto == "" || profile.PhotoPath != "" {
		return nil
	}

	rel, err := p.media.CopyDefaultPhoto(p.defaultPhoto, userID)
	if err != nil {
		p.logger.Warn("could not copy default profile photo",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	profile.PhotoPath = rel
	if err := p.profiles.Update(ctx, profile); err != nil {
		p.logger.Warn("could not save default profile photo",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}
