package database

import (
	"context"
)

// Database defines the methods for database operations. Lookups of a
// single missing record return gorm.ErrRecordNotFound; the single-row
// configuration getters return (nil, nil) when nothing has been saved yet.
type Database interface {
	// Close closes the database connection.
	Close() error

	// Transaction runs fn in a transaction carried by the context it receives.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByOpenID(ctx context.Context, openID string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id uint) error
	// ListUsers returns every user, newest first.
	ListUsers(ctx context.Context) ([]*User, error)
	// ListUsersByStatus returns users in the given status, oldest first.
	ListUsersByStatus(ctx context.Context, status UserStatus) ([]*User, error)
	// ListApprovedAdmins returns approved admins and super admins.
	ListApprovedAdmins(ctx context.Context) ([]*User, error)
	UpdateUserRole(ctx context.Context, id uint, role UserRole) error
	UpdateUserStatus(ctx context.Context, id uint, status UserStatus) error

	CreateCarrousel(ctx context.Context, c *Carrousel) error
	GetCarrouselByID(ctx context.Context, id uint) (*Carrousel, error)
	// ListCarrousels returns every carousel, newest first.
	ListCarrousels(ctx context.Context) ([]*Carrousel, error)
	// ListCarrouselsByUser returns one user's carousels, newest first.
	ListCarrouselsByUser(ctx context.Context, userID uint) ([]*Carrousel, error)
	UpdateCarrousel(ctx context.Context, c *Carrousel) error
	DeleteCarrousel(ctx context.Context, id uint) error
	DeleteCarrouselsByUser(ctx context.Context, userID uint) error

	// ListSlideTypes returns the registry ordered by type key.
	ListSlideTypes(ctx context.Context) ([]*SlideTypeConfig, error)
	GetSlideType(ctx context.Context, typeKey string) (*SlideTypeConfig, error)
	CreateSlideType(ctx context.Context, st *SlideTypeConfig) error
	// UpsertSlideType inserts or updates by type key.
	UpsertSlideType(ctx context.Context, st *SlideTypeConfig) error
	SetSlideTypeActive(ctx context.Context, typeKey string, active bool) error
	SetSlideTypeImage(ctx context.Context, typeKey string, imageURL string) error
	DeleteSlideType(ctx context.Context, typeKey string) error

	CreateAuditLog(ctx context.Context, entry *AuditLog) error
	// ListAuditLogs returns up to limit entries, newest first.
	ListAuditLogs(ctx context.Context, limit int) ([]*AuditLog, error)
	ClearAuditLogs(ctx context.Context) error
	DeleteAuditLogsByUser(ctx context.Context, userID uint) error

	CreateNotification(ctx context.Context, n *Notification) error
	// ListNotifications returns a user's notifications, newest first.
	ListNotifications(ctx context.Context, userID uint) ([]*Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uint) (int64, error)
	// MarkNotificationRead and DeleteNotification only touch rows owned by
	// userID and report gorm.ErrRecordNotFound otherwise.
	MarkNotificationRead(ctx context.Context, userID, id uint) error
	MarkAllNotificationsRead(ctx context.Context, userID uint) error
	DeleteNotification(ctx context.Context, userID, id uint) error
	DeleteNotificationsByUser(ctx context.Context, userID uint) error

	// TouchThematique creates the theme or bumps its usage count.
	TouchThematique(ctx context.Context, name string) error
	// SearchThematiques returns themes containing term, most used first.
	SearchThematiques(ctx context.Context, term string, limit int) ([]*Thematique, error)

	// ListHelpResources returns resources by display order; activeOnly
	// hides disabled entries.
	ListHelpResources(ctx context.Context, activeOnly bool) ([]*HelpResource, error)
	CreateHelpResource(ctx context.Context, r *HelpResource) error
	DeleteHelpResource(ctx context.Context, id uint) error

	GetSmtpConfig(ctx context.Context) (*SmtpConfig, error)
	SaveSmtpConfig(ctx context.Context, cfg *SmtpConfig) error
	GetAiConfig(ctx context.Context) (*AiConfig, error)
	SaveAiConfig(ctx context.Context, cfg *AiConfig) error
	GetBrandConfig(ctx context.Context) (*BrandConfig, error)
	SaveBrandConfig(ctx context.Context, cfg *BrandConfig) error
	GetSlideConfig(ctx context.Context) (*SlideConfig, error)
	SaveSlideConfig(ctx context.Context, cfg *SlideConfig) error
}
