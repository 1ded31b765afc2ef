package model

import (
	"time"

	"gorm.io/datatypes"
)

// UnknownPerson is shown wherever a profile reference cannot be resolved.
const UnknownPerson = "Unknown"

// Profile mirrors one account of the managed auth service. Rows are inserted by the
// on_auth_user_created trigger, so the primary key is the account id.
type Profile struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	FullName  *string   `json:"full_name" gorm:"size:255"`
	Role      *string   `json:"role" gorm:"size:255"`
	Location  *string   `json:"location" gorm:"size:255"`
	AvatarURL *string   `json:"avatar_url" gorm:"size:512"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns the full name, or UnknownPerson when it is missing.
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == nil || *p.FullName == "" {
		return UnknownPerson
	}
	return *p.FullName
}

func (p *Profile) RoleName() string {
	if p == nil || p.Role == nil {
		return ""
	}
	return *p.Role
}

func (p *Profile) LocationName() string {
	if p == nil || p.Location == nil {
		return ""
	}
	return *p.Location
}

// AuthUser is the read-only view of auth.users used by the profile repair routine.
type AuthUser struct {
	ID              string         `gorm:"primaryKey"`
	Email           string         `gorm:"column:email"`
	RawUserMetaData datatypes.JSON `gorm:"column:raw_user_meta_data"`
}

func (AuthUser) TableName() string {
	return "auth.users"
}

// UserMetadata is the subset of raw_user_meta_data the application reads.
type UserMetadata struct {
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	Location  string `json:"location"`
	AvatarURL string `json:"avatar_url"`
}

// CurrentUser is the signed-in account as shown in the page header.
type CurrentUser struct {
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
}

// Name prefers the profile name and falls back to the account email.
func (u CurrentUser) Name() string {
	if u.Profile != nil && u.Profile.FullName != nil && *u.Profile.FullName != "" {
		return *u.Profile.FullName
	}
	return u.Email
}
