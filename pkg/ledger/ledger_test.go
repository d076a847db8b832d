package ledger

import (
	"os"
	"testing"
)

func TestLedgerManager(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "ledger_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	os.Setenv("XDG_DATA_HOME", tempDir)
	defer os.Unsetenv("XDG_DATA_HOME")

	account := "testaccount"

	t.Run("CreateAndLoad", func(t *testing.T) {
		mgr, err := NewManager(account)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		ledger, err := mgr.LoadOrCreate(account)
		if err != nil {
			t.Fatalf("Failed to create ledger: %v", err)
		}
		if ledger.Account != account {
			t.Errorf("Expected account %s, got %s", account, ledger.Account)
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to load ledger: %v", err)
		}
		if loaded == nil {
			t.Fatal("Expected ledger, got nil")
		}
		if loaded.Account != account {
			t.Errorf("Expected loaded account %s, got %s", account, loaded.Account)
		}
	})

	t.Run("RecordAndLookup", func(t *testing.T) {
		mgr, err := NewManager(account)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		ledger, err := mgr.LoadOrCreate(account)
		if err != nil {
			t.Fatalf("Failed to create ledger: %v", err)
		}

		if err := mgr.Record(ledger, "alice", "follow", "succeeded"); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}
		if err := mgr.Record(ledger, "@Bob", "follow", "failed"); err != nil {
			t.Fatalf("Failed to record entry: %v", err)
		}

		if !ledger.IsProcessed("alice") {
			t.Error("Expected alice to be processed")
		}
		if !ledger.IsProcessed("@ALICE") {
			t.Error("Expected @ALICE to match the alice entry")
		}
		if !ledger.IsProcessed("bob") {
			t.Error("Expected bob to be processed")
		}
		if ledger.IsProcessed("carol") {
			t.Error("Expected carol to not be processed")
		}

		// Entries survive a reload.
		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Failed to reload ledger: %v", err)
		}
		if !loaded.IsProcessed("alice") {
			t.Error("Expected alice entry to survive reload")
		}
	})

	t.Run("Summary", func(t *testing.T) {
		mgr, err := NewManager("summaryaccount")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		ledger, err := mgr.LoadOrCreate("summaryaccount")
		if err != nil {
			t.Fatalf("Failed to create ledger: %v", err)
		}

		mgr.Record(ledger, "a", "follow", "succeeded")
		mgr.Record(ledger, "b", "follow", "succeeded")
		mgr.Record(ledger, "c", "follow", "failed")
		mgr.Record(ledger, "d", "block", "succeeded")

		summary := ledger.Summary()
		if summary["follow_succeeded"] != 2 {
			t.Errorf("Expected 2 successful follows, got %d", summary["follow_succeeded"])
		}
		if summary["follow_failed"] != 1 {
			t.Errorf("Expected 1 failed follow, got %d", summary["follow_failed"])
		}
		if summary["block_succeeded"] != 1 {
			t.Errorf("Expected 1 successful block, got %d", summary["block_succeeded"])
		}
	})

	t.Run("RecentEntries", func(t *testing.T) {
		mgr, err := NewManager("recentaccount")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		ledger, err := mgr.LoadOrCreate("recentaccount")
		if err != nil {
			t.Fatalf("Failed to create ledger: %v", err)
		}

		for _, h := range []string{"one", "two", "three", "four"} {
			if err := mgr.Record(ledger, h, "follow", "succeeded"); err != nil {
				t.Fatalf("Failed to record entry: %v", err)
			}
		}

		recent := ledger.RecentEntries(2)
		if len(recent) != 2 {
			t.Fatalf("Expected 2 recent entries, got %d", len(recent))
		}
		if recent[0].ProcessedAt.Before(recent[1].ProcessedAt) {
			t.Error("Expected newest entry first")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		mgr, err := NewManager(account)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		if _, err := mgr.LoadOrCreate(account); err != nil {
			t.Fatalf("Failed to create ledger: %v", err)
		}
		if !mgr.Exists() {
			t.Error("Expected ledger to exist")
		}

		if err := mgr.Delete(); err != nil {
			t.Fatalf("Failed to delete ledger: %v", err)
		}
		if mgr.Exists() {
			t.Error("Expected ledger to not exist after deletion")
		}
	})

	t.Run("LoadMissingReturnsNil", func(t *testing.T) {
		mgr, err := NewManager("neverused")
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}

		loaded, err := mgr.Load()
		if err != nil {
			t.Fatalf("Load of missing ledger failed: %v", err)
		}
		if loaded != nil {
			t.Error("Expected nil for missing ledger")
		}
	})
}
