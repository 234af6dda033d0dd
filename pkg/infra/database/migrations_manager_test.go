package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func registerForTest(t *testing.T, ids ...string) {
	t.Helper()
	savedOrder := append([]string(nil), migrationsOrder...)
	t.Cleanup(func() {
		for _, id := range ids {
			delete(migrationsRegistry, id)
		}
		migrationsOrder = savedOrder
	})
	for _, id := range ids {
		RegisterMigration(Migration{ID: id, Name: "test " + id, Up: func(*gorm.DB) error { return nil }})
	}
}

func migrationIDs(ms []Migration) []string {
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestPendingMigrations_OrderedAndSkipsApplied(t *testing.T) {
	registerForTest(t, "20990103_c", "20990101_a", "20990102_b")

	pending := pendingMigrations(map[string]struct{}{"20990102_b": {}})

	assert.Equal(t, []string{"20990101_a", "20990103_c"}, migrationIDs(pending))
	assert.Equal(t, "test 20990101_a", pending[0].Name)
}

func TestPendingMigrations_DoesNotReorderRegistry(t *testing.T) {
	registerForTest(t, "20990202_b", "20990201_a")
	before := append([]string(nil), migrationsOrder...)

	_ = pendingMigrations(nil)

	assert.Equal(t, before, migrationsOrder)
}

func TestRegisterMigration_DuplicatePanics(t *testing.T) {
	registerForTest(t, "20990301_dup")

	assert.Panics(t, func() {
		RegisterMigration(Migration{ID: "20990301_dup"})
	})
}
