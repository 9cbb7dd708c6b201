package testsupport

import (
	"context"
	"testing"

	"newscast/internal/config"
	"newscast/internal/history"
)

// MustOpenHistory opens the run ledger for cfg and closes it on cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
