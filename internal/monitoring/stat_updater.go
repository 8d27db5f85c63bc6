package monitoring

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// resourceTables are the per-account tables whose sizes are published.
var resourceTables = []string{"memos", "tasks", "documents", "events", "todos"}

// StatUpdater periodically publishes row counts for every resource kind.
type StatUpdater struct {
	db       *sql.DB
	interval time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

// NewStatUpdater creates a new StatUpdater.
func NewStatUpdater(db *sql.DB, interval time.Duration) *StatUpdater {
	return &StatUpdater{db: db, interval: interval, done: make(chan struct{})}
}

// Run starts the periodic updates and blocks until Stop.
func (su *StatUpdater) Run() {
	log.Info().Dur("interval", su.interval).Msg("Starting background stat updater...")
	ticker := time.NewTicker(su.interval)
	defer ticker.Stop()

	// Run once immediately on start
	su.Update(context.Background())

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-ticker.C:
			su.Update(context.Background())
		}
	}
}

// Stop halts the periodic updates.
func (su *StatUpdater) Stop() {
	su.stopOnce.Do(func() { close(su.done) })
}

// Update counts the rows of every resource table and publishes the totals.
func (su *StatUpdater) Update(ctx context.Context) map[string]int64 {
	counts := make(map[string]int64, len(resourceTables))
	for _, table := range resourceTables {
		var n int64
		if err := su.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
			log.Error().Err(err).Str("table", table).Msg("StatUpdater: Failed to count rows")
			continue
		}
		counts[table] = n
		SetResourceRows(table, n)
	}
	return counts
}
