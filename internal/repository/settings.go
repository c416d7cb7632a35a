package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
)

// SettingsRepository is the store side of the settings collaborator. The
// settings documents are plain key-value records except for the privacy
// block list, which the block engine keeps paired with the blocks
// collection.
type SettingsRepository interface {
	GetPrivacy(ctx context.Context, userID uint) (*models.PrivacySettings, error)
	SavePrivacy(ctx context.Context, settings *models.PrivacySettings) error
	PushBlockList(ctx context.Context, userID uint, blockID uint) error
	PullBlockList(ctx context.Context, userID uint, blockID uint) error
	DeleteAll(ctx context.Context, userID uint) error
	DeleteProfilePage(ctx context.Context, userID uint) error
	CreateDefaults(ctx context.Context, userID uint) error
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetPrivacy returns the user's privacy settings, creating the default
// document on first access.
func (r *settingsRepository) GetPrivacy(ctx context.Context, userID uint) (*models.PrivacySettings, error) {
	var settings models.PrivacySettings
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.PrivacySettings{
			UserID:        userID,
			CanBeFollowed: true,
			BlockList:     models.IDList{},
		}
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the create race; the row exists now.
				return r.GetPrivacy(ctx, userID)
			}
			return nil, models.NewInternalError(err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &settings, nil
}

func (r *settingsRepository) SavePrivacy(ctx context.Context, settings *models.PrivacySettings) error {
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *settingsRepository) PushBlockList(ctx context.Context, userID uint, blockID uint) error {
	settings, err := r.GetPrivacy(ctx, userID)
	if err != nil {
		return err
	}
	return pushListID(ctx, r.db, &models.PrivacySettings{}, settings.ID, "block_list", blockID)
}

func (r *settingsRepository) PullBlockList(ctx context.Context, userID uint, blockID uint) error {
	settings, err := r.GetPrivacy(ctx, userID)
	if err != nil {
		return err
	}
	return pullListID(ctx, r.db, &models.PrivacySettings{}, settings.ID, "block_list", blockID)
}

// DeleteAll removes every settings document for the user. Invoked by the
// cascade coordinator on user deletion.
func (r *settingsRepository) DeleteAll(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PrivacySettings{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.GeneralSettings{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PreferenceSettings{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *settingsRepository) DeleteProfilePage(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ProfilePage{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CreateDefaults seeds the settings documents and profile page for a new
// user.
func (r *settingsRepository) CreateDefaults(ctx context.Context, userID uint) error {
	docs := []interface{}{
		&models.PrivacySettings{UserID: userID, CanBeFollowed: true, BlockList: models.IDList{}},
		&models.GeneralSettings{UserID: userID, Language: "en", Timezone: "UTC"},
		&models.PreferenceSettings{UserID: userID, EmailNotifications: true, PushNotifications: true},
		&models.ProfilePage{UserID: userID},
	}
	for _, doc := range docs {
		if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}
