package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tastelink/tastelink/shared/domain"
	"github.com/tastelink/tastelink/shared/logger"
)

// MigrationStats summarises one capacity migration run.
type MigrationStats struct {
	RunAt    time.Time
	Scanned  int
	Migrated int
	Skipped  int // capacity already set, or nothing to derive it from
	Failed   int
	Errors   []string
}

// Migrator moves legacy capacity fields (maxMembers, members, membersLimit)
// into the canonical capacity field so reads no longer have to guess.
type Migrator struct {
	store  PostStore
	dryRun bool
	log    *slog.Logger
}

func NewMigrator(store PostStore, dryRun bool) *Migrator {
	return &Migrator{store: store, dryRun: dryRun, log: logger.Component("capacity_migrator")}
}

// MigrateCapacity patches capacity on every post that lacks it but has a
// legacy field that resolves. Individual failures are collected, not fatal.
func (m *Migrator) MigrateCapacity(ctx context.Context) (MigrationStats, error) {
	stats := MigrationStats{RunAt: time.Now()}
	posts, err := m.store.ListPosts(ctx)
	if err != nil {
		return stats, err
	}

	for _, p := range posts {
		stats.Scanned++
		if p.Capacity != nil {
			stats.Skipped++
			continue
		}
		capacity, ok := domain.ResolveCapacity(p)
		if !ok {
			stats.Skipped++
			continue
		}
		if m.dryRun {
			m.log.Info("would migrate capacity", "post", p.Id, "capacity", capacity)
			stats.Migrated++
			continue
		}
		if _, err := m.store.PatchPost(ctx, p.Id, map[string]any{"capacity": capacity}); err != nil {
			stats.Failed++
			stats.Errors = append(stats.Errors, p.Id+": "+err.Error())
			m.log.Error("capacity migration failed", "post", p.Id, "error", err)
			continue
		}
		stats.Migrated++
	}

	m.log.Info("capacity migration finished",
		"scanned", stats.Scanned,
		"migrated", stats.Migrated,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"dry_run", m.dryRun)
	return stats, nil
}
