package models

import "time"

// IdentityLink maps an external identity-provider subject to a local user.
// Keyed by (provider, subject); written on first successful introspection.
type IdentityLink struct {
	ID         string    `gorm:"column:id;type:char(26);primaryKey"`
	Provider   string    `gorm:"column:provider;not null;uniqueIndex:identity_links_provider_subject_key"`
	Subject    string    `gorm:"column:subject;not null;uniqueIndex:identity_links_provider_subject_key"`
	UserID     string    `gorm:"column:user_id;type:char(26);not null;index"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
