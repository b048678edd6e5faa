package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// store holds the gorm queries shared by every dialect.
type store struct {
	db *gorm.DB
}

func newStore(gormDB *gorm.DB) (*store, error) {
	if err := gormDB.AutoMigrate(allModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &store{db: gormDB}, nil
}

// Close closes the database connection
func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) conn(ctx context.Context) *gorm.DB {
	return getDBFromContext(ctx, s.db)
}

// Users

func (s *store) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *store) GetUserByOpenID(ctx context.Context, openID string) (*User, error) {
	var u User
	if err := s.conn(ctx).Where("open_id = ?", openID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *store) CreateUser(ctx context.Context, user *User) error {
	return s.conn(ctx).Create(user).Error
}

func (s *store) UpdateUser(ctx context.Context, user *User) error {
	return s.conn(ctx).Save(user).Error
}

func (s *store) DeleteUser(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&User{}, id).Error
}

func (s *store) ListUsers(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.conn(ctx).Order("created_at desc, id desc").Find(&users).Error
	return users, err
}

func (s *store) ListUsersByStatus(ctx context.Context, status UserStatus) ([]*User, error) {
	var users []*User
	err := s.conn(ctx).
		Where("status = ?", status).
		Order("created_at asc, id asc").
		Find(&users).Error
	return users, err
}

func (s *store) ListApprovedAdmins(ctx context.Context) ([]*User, error) {
	var users []*User
	err := s.conn(ctx).
		Where("status = ? AND role IN ?", StatusApproved, []UserRole{RoleAdmin, RoleSuperAdmin}).
		Order("id asc").
		Find(&users).Error
	return users, err
}

func (s *store) UpdateUserRole(ctx context.Context, id uint, role UserRole) error {
	return s.updateExisting(ctx, &User{}, id, map[string]any{"role": role})
}

func (s *store) UpdateUserStatus(ctx context.Context, id uint, status UserStatus) error {
	return s.updateExisting(ctx, &User{}, id, map[string]any{"status": status})
}

// updateExisting reports gorm.ErrRecordNotFound when no row has the id.
func (s *store) updateExisting(ctx context.Context, model any, id uint, values map[string]any) error {
	db := s.conn(ctx)
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return db.Model(model).Where("id = ?", id).Updates(values).Error
}

// Carousels

func (s *store) CreateCarrousel(ctx context.Context, c *Carrousel) error {
	return s.conn(ctx).Create(c).Error
}

func (s *store) GetCarrouselByID(ctx context.Context, id uint) (*Carrousel, error) {
	var c Carrousel
	if err := s.conn(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *store) ListCarrousels(ctx context.Context) ([]*Carrousel, error) {
	var out []*Carrousel
	err := s.conn(ctx).Order("created_at desc, id desc").Find(&out).Error
	return out, err
}

func (s *store) ListCarrouselsByUser(ctx context.Context, userID uint) ([]*Carrousel, error) {
	var out []*Carrousel
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

func (s *store) UpdateCarrousel(ctx context.Context, c *Carrousel) error {
	return s.conn(ctx).Save(c).Error
}

func (s *store) DeleteCarrousel(ctx context.Context, id uint) error {
	return s.conn(ctx).Delete(&Carrousel{}, id).Error
}

func (s *store) DeleteCarrouselsByUser(ctx context.Context, userID uint) error {
	return s.conn(ctx).Where("user_id = ?", userID).Delete(&Carrousel{}).Error
}

// Slide types

func (s *store) ListSlideTypes(ctx context.Context) ([]*SlideTypeConfig, error) {
	var out []*SlideTypeConfig
	err := s.conn(ctx).Order("type_key asc").Find(&out).Error
	return out, err
}

func (s *store) GetSlideType(ctx context.Context, typeKey string) (*SlideTypeConfig, error) {
	var st SlideTypeConfig
	if err := s.conn(ctx).Where("type_key = ?", typeKey).First(&st).Error; err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *store) CreateSlideType(ctx context.Context, st *SlideTypeConfig) error {
	return s.conn(ctx).Create(st).Error
}

func (s *store) UpsertSlideType(ctx context.Context, st *SlideTypeConfig) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.GetSlideType(ctx, st.TypeKey)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.CreateSlideType(ctx, st)
		}
		if err != nil {
			return err
		}
		st.ID = existing.ID
		st.CreatedAt = existing.CreatedAt
		if st.ImageURL == nil {
			st.ImageURL = existing.ImageURL
		}
		return s.conn(ctx).Save(st).Error
	})
}

func (s *store) SetSlideTypeActive(ctx context.Context, typeKey string, active bool) error {
	return s.updateSlideType(ctx, typeKey, map[string]any{"is_active": active})
}

func (s *store) SetSlideTypeImage(ctx context.Context, typeKey string, imageURL string) error {
	return s.updateSlideType(ctx, typeKey, map[string]any{"image_url": imageURL})
}

func (s *store) updateSlideType(ctx context.Context, typeKey string, values map[string]any) error {
	st, err := s.GetSlideType(ctx, typeKey)
	if err != nil {
		return err
	}
	return s.conn(ctx).Model(st).Updates(values).Error
}

func (s *store) DeleteSlideType(ctx context.Context, typeKey string) error {
	res := s.conn(ctx).Where("type_key = ?", typeKey).Delete(&SlideTypeConfig{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Audit trail

func (s *store) CreateAuditLog(ctx context.Context, entry *AuditLog) error {
	return s.conn(ctx).Create(entry).Error
}

func (s *store) ListAuditLogs(ctx context.Context, limit int) ([]*AuditLog, error) {
	var out []*AuditLog
	err := s.conn(ctx).Order("created_at desc, id desc").Limit(limit).Find(&out).Error
	return out, err
}

func (s *store) ClearAuditLogs(ctx context.Context) error {
	return s.conn(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&AuditLog{}).Error
}

func (s *store) DeleteAuditLogsByUser(ctx context.Context, userID uint) error {
	return s.conn(ctx).Where("user_id = ?", userID).Delete(&AuditLog{}).Error
}

// Notifications

func (s *store) CreateNotification(ctx context.Context, n *Notification) error {
	return s.conn(ctx).Create(n).Error
}

func (s *store) ListNotifications(ctx context.Context, userID uint) ([]*Notification, error) {
	var out []*Notification
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

func (s *store) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (s *store) ownedNotification(ctx context.Context, userID, id uint) (*Notification, error) {
	var n Notification
	if err := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *store) MarkNotificationRead(ctx context.Context, userID, id uint) error {
	n, err := s.ownedNotification(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.conn(ctx).Model(n).Update("is_read", true).Error
}

func (s *store) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	return s.conn(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (s *store) DeleteNotification(ctx context.Context, userID, id uint) error {
	n, err := s.ownedNotification(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.conn(ctx).Delete(n).Error
}

func (s *store) DeleteNotificationsByUser(ctx context.Context, userID uint) error {
	return s.conn(ctx).Where("user_id = ?", userID).Delete(&Notification{}).Error
}

// Themes

func (s *store) TouchThematique(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	now := time.Now()
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"usage_count": gorm.Expr("thematiques.usage_count + 1"),
			"updated_at":  now,
		}),
	}).Create(&Thematique{Name: name, UsageCount: 1, CreatedAt: now, UpdatedAt: now}).Error
}

func (s *store) SearchThematiques(ctx context.Context, term string, limit int) ([]*Thematique, error) {
	var out []*Thematique
	q := s.conn(ctx).Order("usage_count desc, name asc").Limit(limit)
	if term = strings.TrimSpace(term); term != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
	err := q.Find(&out).Error
	return out, err
}

// Help resources

func (s *store) ListHelpResources(ctx context.Context, activeOnly bool) ([]*HelpResource, error) {
	var out []*HelpResource
	q := s.conn(ctx).Order("display_order asc, id asc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&out).Error
	return out, err
}

func (s *store) CreateHelpResource(ctx context.Context, r *HelpResource) error {
	return s.conn(ctx).Create(r).Error
}

func (s *store) DeleteHelpResource(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&HelpResource{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Single-row configuration

func (s *store) GetSmtpConfig(ctx context.Context) (*SmtpConfig, error) {
	return first[SmtpConfig](s.conn(ctx))
}

func (s *store) SaveSmtpConfig(ctx context.Context, cfg *SmtpConfig) error {
	return saveSingleton(s.conn(ctx), cfg, &cfg.ID)
}

func (s *store) GetAiConfig(ctx context.Context) (*AiConfig, error) {
	return first[AiConfig](s.conn(ctx))
}

func (s *store) SaveAiConfig(ctx context.Context, cfg *AiConfig) error {
	return saveSingleton(s.conn(ctx), cfg, &cfg.ID)
}

func (s *store) GetBrandConfig(ctx context.Context) (*BrandConfig, error) {
	return first[BrandConfig](s.conn(ctx))
}

func (s *store) SaveBrandConfig(ctx context.Context, cfg *BrandConfig) error {
	return saveSingleton(s.conn(ctx), cfg, &cfg.ID)
}

func (s *store) GetSlideConfig(ctx context.Context) (*SlideConfig, error) {
	return first[SlideConfig](s.conn(ctx))
}

func (s *store) SaveSlideConfig(ctx context.Context, cfg *SlideConfig) error {
	return saveSingleton(s.conn(ctx), cfg, &cfg.ID)
}

func first[T any](db *gorm.DB) (*T, error) {
	var v T
	err := db.Order("id asc").First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// saveSingleton writes cfg over the existing row, if any, so the table
// never holds more than one.
func saveSingleton[T any](db *gorm.DB, cfg *T, id *uint) error {
	if *id == 0 {
		var ids []uint
		if err := db.Model(new(T)).Order("id asc").Limit(1).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return db.Create(cfg).Error
		}
		*id = ids[0]
	}
	return db.Model(cfg).Select("*").Omit("id", "created_at").Updates(cfg).Error
}
