package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	DefaultCountryCode = "US"
	DefaultTimezone    = "UTC"

	MaxFailedLoginAttempts = 3
)

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string         `gorm:"type:varchar(255);not null" json:"-"`
	Name                string         `gorm:"type:varchar(100);not null" json:"name"`
	Role                string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	CountryCode         string         `gorm:"type:varchar(2);not null;default:'US'" json:"country_code"`
	Timezone            string         `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	CultureTags         StringList     `gorm:"type:text;default:'[]'" json:"culture_tags"`
	CalendarOptIn       bool           `gorm:"not null;default:true" json:"calendar_opt_in"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LockedAt            *time.Time     `gorm:"index" json:"locked_at,omitempty"`
	LastLoginAt         *time.Time     `gorm:"index" json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Transactions  []Transaction    `gorm:"foreignKey:UserID" json:"-"`
	Budgets       []Budget         `gorm:"foreignKey:UserID" json:"-"`
	Insights      []HolidayInsight `gorm:"foreignKey:UserID" json:"-"`
	RefreshTokens []RefreshToken   `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	if u.CountryCode == "" {
		u.CountryCode = DefaultCountryCode
	}
	if u.Timezone == "" {
		u.Timezone = DefaultTimezone
	}
	if u.CultureTags == nil {
		u.CultureTags = StringList{}
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Skip validation for map-based updates (Updates with map), where the
	// User struct is empty and only specific columns change
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}

	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}

	if u.Name == "" {
		return errors.New("name is required")
	}

	if u.Role != RoleCustomer && u.Role != RoleAdmin {
		return fmt.Errorf("invalid role: %s", u.Role)
	}

	if u.CountryCode != "" && !countryCodeRegex.MatchString(u.CountryCode) {
		return fmt.Errorf("invalid country code: %s", u.CountryCode)
	}

	return nil
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

func (u *User) Lock() {
	now := time.Now()
	u.LockedAt = &now
	u.FailedLoginAttempts = MaxFailedLoginAttempts
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

func (u *User) IncrementFailedAttempts() {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= MaxFailedLoginAttempts {
		u.Lock()
	}
}

func (u *User) ResetFailedAttempts() {
	u.FailedLoginAttempts = 0
}

func (u *User) UpdateLastLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) TableName() string {
	return "users"
}
