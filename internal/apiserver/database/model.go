package database

import (
	"time"

	"gorm.io/datatypes"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleMember     UserRole = "membre"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

// UserStatus is the approval state of an account.
type UserStatus string

const (
	StatusPending  UserStatus = "pending"
	StatusApproved UserStatus = "approved"
	StatusRejected UserStatus = "rejected"
	StatusBlocked  UserStatus = "blocked"
)

// User is an account created on first login through the OAuth portal.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	OpenID       string     `json:"openId" gorm:"column:open_id;type:varchar(64);uniqueIndex;not null"`
	Name         string     `json:"name" gorm:"type:text"`
	Email        string     `json:"email" gorm:"type:varchar(320)"`
	LoginMethod  string     `json:"loginMethod" gorm:"type:varchar(64)"`
	FirstName    string     `json:"firstName" gorm:"type:varchar(100)"`
	LastName     string     `json:"lastName" gorm:"type:varchar(100)"`
	Fonction     string     `json:"fonction" gorm:"type:varchar(200)"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'membre'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastSignedIn time.Time  `json:"lastSignedIn"`
}

// DisplayName is what notifications and audit entries show for the user.
func (u *User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return "Un utilisateur"
}

// Carrousel stores a saved carousel. Slides holds the JSON slide array.
type Carrousel struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID           uint      `json:"userId" gorm:"index;not null"`
	Titre            string    `json:"titre" gorm:"type:text;not null"`
	Thematique       string    `json:"thematique" gorm:"type:text;not null"`
	EmailDestination *string   `json:"emailDestination" gorm:"type:varchar(320)"`
	Slides           string    `json:"slides" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Carrousel) TableName() string { return "carrousels" }

// SlideTypeConfig is a slide type registry entry.
type SlideTypeConfig struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TypeKey   string    `json:"typeKey" gorm:"type:varchar(50);uniqueIndex;not null"`
	Label     string    `json:"label" gorm:"type:text;not null"`
	CharLimit int       `json:"charLimit" gorm:"not null"`
	IsActive  bool      `json:"isActive" gorm:"not null"`
	ImageURL  *string   `json:"imageUrl" gorm:"type:text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuditLog records an administrative action. Details is free-form JSON.
type AuditLog struct {
	ID         uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint           `json:"userId" gorm:"index;not null"`
	UserName   string         `json:"userName" gorm:"type:text"`
	Action     string         `json:"action" gorm:"type:varchar(100);not null"`
	EntityType string         `json:"entityType" gorm:"type:varchar(50);not null"`
	EntityID   *uint          `json:"entityId"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
}

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID            uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        uint      `json:"userId" gorm:"index;not null"`
	Type          string    `json:"type" gorm:"type:varchar(50);not null"`
	Title         string    `json:"title" gorm:"type:text;not null"`
	Message       string    `json:"message" gorm:"type:text;not null"`
	IsRead        bool      `json:"isRead" gorm:"not null"`
	RelatedUserID *uint     `json:"relatedUserId"`
	CreatedAt     time.Time `json:"createdAt"`
}

const NotificationUserPending = "user_pending"

// Thematique is a previously used carousel theme with its usage count.
type Thematique struct {
	ID         uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"type:varchar(255);uniqueIndex;not null"`
	UsageCount int       `json:"usageCount" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HelpResource is an entry of the help page.
type HelpResource struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Type         string    `json:"type" gorm:"type:varchar(20);not null"` // file, link, cgu
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text"`
	URL          string    `json:"url" gorm:"type:text;not null"`
	DisplayOrder int       `json:"displayOrder" gorm:"not null"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SmtpConfig is the single-row outgoing mail configuration.
type SmtpConfig struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Host             string    `json:"host" gorm:"type:varchar(255)"`
	Port             int       `json:"port" gorm:"not null"`
	Secure           bool      `json:"secure" gorm:"not null"`
	User             string    `json:"user" gorm:"type:varchar(255)"`
	Pass             string    `json:"-" gorm:"type:text"`
	From             string    `json:"from" gorm:"column:from_address;type:varchar(320)"`
	DestinationEmail string    `json:"destinationEmail" gorm:"type:varchar(320)"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AiConfig is the single-row image description provider configuration.
type AiConfig struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Provider         string    `json:"provider" gorm:"type:varchar(20);not null;default:'infomaniak'"`
	APIToken         string    `json:"-" gorm:"column:api_token;type:text"`
	ProductID        string    `json:"productId" gorm:"type:varchar(100)"`
	OrganizationID   string    `json:"organizationId" gorm:"type:varchar(100)"`
	AnthropicVersion string    `json:"anthropicVersion" gorm:"type:varchar(50)"`
	Model            string    `json:"model" gorm:"type:varchar(100)"`
	MaxTokens        int       `json:"maxTokens" gorm:"not null"`
	Temperature      int       `json:"temperature" gorm:"not null"` // hundredths
	IsEnabled        bool      `json:"isEnabled" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BrandConfig is the single-row organization branding.
type BrandConfig struct {
	ID               uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	OrganizationName string    `json:"organizationName" gorm:"type:varchar(255);not null"`
	Description      string    `json:"description" gorm:"type:varchar(250)"`
	LogoURL          *string   `json:"logoUrl" gorm:"type:text"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// SlideConfig is the single-row bound on content slides per carousel.
type SlideConfig struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MinSlides int       `json:"minSlides" gorm:"not null"`
	MaxSlides int       `json:"maxSlides" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func allModels() []any {
	return []any{
		&User{}, &Carrousel{}, &SlideTypeConfig{}, &AuditLog{}, &Notification{},
		&Thematique{}, &HelpResource{}, &SmtpConfig{}, &AiConfig{}, &BrandConfig{}, &SlideConfig{},
	}
}
