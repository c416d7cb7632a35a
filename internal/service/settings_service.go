package service

import (
	"context"

	"weave/internal/cache"
	"weave/internal/models"
	"weave/internal/repository"
)

// PrivacyReader is the settings surface the request engine consults before
// creating a relationship.
type PrivacyReader interface {
	GetPrivacySettings(ctx context.Context, userID uint) (*models.PrivacySettings, error)
	GetPageVisibility(ctx context.Context, orgID uint) (bool, error)
}

// SettingsService provides per-user settings and page-visibility lookups.
// Reads are served through the cache-aside layer; writes invalidate.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
	orgRepo      repository.OrganizationRepository
}

// NewSettingsService returns a new SettingsService.
func NewSettingsService(settingsRepo repository.SettingsRepository, orgRepo repository.OrganizationRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		orgRepo:      orgRepo,
	}
}

// GetPrivacySettings returns the user's privacy settings, creating the
// default document on first access.
func (s *SettingsService) GetPrivacySettings(ctx context.Context, userID uint) (*models.PrivacySettings, error) {
	var settings models.PrivacySettings
	err := cache.Aside(ctx, cache.PrivacySettingsKey(userID), &settings, cache.PrivacySettingsTTL, func() error {
		stored, err := s.settingsRepo.GetPrivacy(ctx, userID)
		if err != nil {
			return err
		}
		settings = *stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// PrivacyPatch carries the caller-editable privacy flags.
type PrivacyPatch struct {
	CanBeFollowed         *bool `json:"can_be_followed"`
	RequireFriendRequests *bool `json:"require_friend_requests"`
}

// UpdatePrivacySettings applies the patch and invalidates the cached copy.
func (s *SettingsService) UpdatePrivacySettings(ctx context.Context, userID uint, patch PrivacyPatch) (*models.PrivacySettings, error) {
	settings, err := s.settingsRepo.GetPrivacy(ctx, userID)
	if err != nil {
		return nil, err
	}
	if patch.CanBeFollowed != nil {
		settings.CanBeFollowed = *patch.CanBeFollowed
	}
	if patch.RequireFriendRequests != nil {
		settings.RequireFriendRequests = *patch.RequireFriendRequests
	}
	if err := s.settingsRepo.SavePrivacy(ctx, settings); err != nil {
		return nil, err
	}
	cache.InvalidatePrivacySettings(ctx, userID)
	return settings, nil
}

// GetPageVisibility reports whether the organization page accepts followers.
func (s *SettingsService) GetPageVisibility(ctx context.Context, orgID uint) (bool, error) {
	var canBeFollowed bool
	err := cache.Aside(ctx, cache.PageVisibilityKey(orgID), &canBeFollowed, cache.PageVisibilityTTL, func() error {
		org, err := s.orgRepo.GetByID(ctx, orgID)
		if err != nil {
			return err
		}
		canBeFollowed = org.CanBeFollowed
		return nil
	})
	if err != nil {
		return false, err
	}
	return canBeFollowed, nil
}
