package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PrivacySettingsKeyPrefix = "privacy:%d"
	PageVisibilityKeyPrefix  = "pagevis:%d"
	BlockedKeyPrefix         = "blocked:%d:%d"
)

const (
	PrivacySettingsTTL = 5 * time.Minute
	PageVisibilityTTL  = 10 * time.Minute
	BlockedTTL         = 2 * time.Minute
)

func PrivacySettingsKey(userID uint) string {
	return fmt.Sprintf(PrivacySettingsKeyPrefix, userID)
}

func PageVisibilityKey(orgID uint) string {
	return fmt.Sprintf(PageVisibilityKeyPrefix, orgID)
}

func BlockedKey(viewerID, ownerID uint) string {
	return fmt.Sprintf(BlockedKeyPrefix, viewerID, ownerID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePrivacySettings(ctx context.Context, userID uint) {
	Invalidate(ctx, PrivacySettingsKey(userID))
}

func InvalidatePageVisibility(ctx context.Context, orgID uint) {
	Invalidate(ctx, PageVisibilityKey(orgID))
}

func InvalidateBlocked(ctx context.Context, viewerID, ownerID uint) {
	Invalidate(ctx, BlockedKey(viewerID, ownerID))
}
