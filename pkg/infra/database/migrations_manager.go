package database

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// migrationLockKey serializes migrations across replicas starting together.
const migrationLockKey = 7310250417

type Migration struct {
	ID   string
	Name string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

var (
	migrationsRegistry = make(map[string]Migration)
	migrationsOrder    = make([]string, 0)
)

func RegisterMigration(m Migration) {
	if _, exists := migrationsRegistry[m.ID]; exists {
		panic(fmt.Sprintf("migration with ID %s already registered", m.ID))
	}
	migrationsRegistry[m.ID] = m
	migrationsOrder = append(migrationsOrder, m.ID)
}

type MigrationsManager struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewMigrationsManager(db *gorm.DB, logger *logrus.Logger) *MigrationsManager {
	return &MigrationsManager{db: db, logger: logger}
}

func (m *MigrationsManager) ensureMigrationsTable(ctx context.Context) error {
	const createTableSQL = `
CREATE TABLE IF NOT EXISTS public.migration_version (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`
	return m.db.WithContext(ctx).Exec(createTableSQL).Error
}

func appliedMigrations(tx *gorm.DB) (map[string]struct{}, error) {
	type row struct{ ID string }
	var rows []row
	if err := tx.Raw("SELECT id FROM public.migration_version").Scan(&rows).Error; err != nil {
		return nil, err
	}
	applied := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		applied[r.ID] = struct{}{}
	}
	return applied, nil
}

// pendingMigrations returns the registered migrations missing from applied,
// ordered by ID.
func pendingMigrations(applied map[string]struct{}) []Migration {
	ids := make([]string, len(migrationsOrder))
	copy(ids, migrationsOrder)
	sort.Strings(ids)

	pending := make([]Migration, 0, len(ids))
	for _, id := range ids {
		if _, ok := applied[id]; ok {
			continue
		}
		pending = append(pending, migrationsRegistry[id])
	}
	return pending
}

// ApplyPending runs every pending migration in its own transaction together
// with its migration_version row, so a failure leaves no partial schema.
func (m *MigrationsManager) ApplyPending(ctx context.Context) error {
	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := appliedMigrations(m.db.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}

	for _, mig := range pendingMigrations(applied) {
		if mig.Up == nil {
			return fmt.Errorf("migration %s has no Up function", mig.ID)
		}
		if err := m.apply(ctx, mig); err != nil {
			return err
		}
	}
	return nil
}

func (m *MigrationsManager) apply(ctx context.Context, mig Migration) error {
	start := time.Now()
	var skipped bool
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", migrationLockKey).Error; err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}
		// another replica may have applied it while we waited for the lock
		applied, err := appliedMigrations(tx)
		if err != nil {
			return fmt.Errorf("load applied migrations: %w", err)
		}
		if _, ok := applied[mig.ID]; ok {
			skipped = true
			return nil
		}
		if err := mig.Up(tx); err != nil {
			return fmt.Errorf("apply migration %s (%s): %w", mig.ID, mig.Name, err)
		}
		if err := tx.Exec(
			"INSERT INTO public.migration_version (id, name, applied_at) VALUES (?, ?, ?)",
			mig.ID, mig.Name, time.Now(),
		).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", mig.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !skipped && m.logger != nil {
		m.logger.WithFields(logrus.Fields{
			"migration": mig.ID,
			"name":      mig.Name,
			"took":      time.Since(start).String(),
		}).Info("applied migration")
	}
	return nil
}
