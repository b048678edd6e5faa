package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// DefaultSlideTypes is the registry a fresh installation starts with.
func DefaultSlideTypes() []SlideTypeConfig {
	return []SlideTypeConfig{
		{TypeKey: "type1", Label: "Type 1 - Texte principal (max 175 car.)", CharLimit: 175, IsActive: true},
		{TypeKey: "type2", Label: "Type 2 - Texte + image (max 125 car.)", CharLimit: 125, IsActive: true},
		{TypeKey: "type3", Label: "Type 3 - Citation courte + image (max 90 car.)", CharLimit: 90, IsActive: true},
		{TypeKey: "type4", Label: "Type 4 - Citation + auteur (max 130 car.)", CharLimit: 130, IsActive: true},
		{TypeKey: "type5", Label: "Type 5 - Liste de 4 éléments (max 40 car. chacun)", CharLimit: 40, IsActive: true},
	}
}

// Default content slide bounds.
const (
	DefaultMinSlides = 2
	DefaultMaxSlides = 8
)

// SeedOptions controls SeedDefaults. Zero bounds fall back to the defaults.
type SeedOptions struct {
	MinSlides int
	MaxSlides int
	// Overwrite restores the default slide types over edited ones.
	Overwrite bool
}

// SeedDefaults inserts the default slide types and slide bounds. Existing
// rows are left alone unless opts.Overwrite is set.
func SeedDefaults(ctx context.Context, db Database, opts SeedOptions) error {
	if opts.MinSlides <= 0 {
		opts.MinSlides = DefaultMinSlides
	}
	if opts.MaxSlides <= 0 {
		opts.MaxSlides = DefaultMaxSlides
	}
	return db.Transaction(ctx, func(ctx context.Context) error {
		for _, st := range DefaultSlideTypes() {
			st := st
			if opts.Overwrite {
				if err := db.UpsertSlideType(ctx, &st); err != nil {
					return err
				}
				continue
			}
			_, err := db.GetSlideType(ctx, st.TypeKey)
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err := db.CreateSlideType(ctx, &st); err != nil {
				return err
			}
		}

		cfg, err := db.GetSlideConfig(ctx)
		if err != nil {
			return err
		}
		if cfg == nil {
			return db.SaveSlideConfig(ctx, &SlideConfig{MinSlides: opts.MinSlides, MaxSlides: opts.MaxSlides})
		}
		return nil
	})
}
