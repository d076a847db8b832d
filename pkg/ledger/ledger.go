package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"xfollower/pkg/logger"
)

// Entry records one processed handle and how it turned out
type Entry struct {
	Handle      string    `json:"handle"`
	Kind        string    `json:"kind"`
	Outcome     string    `json:"outcome"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Ledger is the durable record of which handles an account has already
// processed. It is what keeps repeated runs from following the same
// account twice.
type Ledger struct {
	Account   string           `json:"account"`
	Entries   map[string]Entry `json:"entries"` // handle -> entry
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Version   int              `json:"version"`
}

// Manager handles ledger persistence for one account
type Manager struct {
	ledgerPath string
	logger     logger.Logger
}

// NewManager creates a ledger manager for the given account. The ledger
// file lives under the per-OS user data directory.
func NewManager(account string) (*Manager, error) {
	dataDir, err := getDataDirectory()
	if err != nil {
		return nil, fmt.Errorf("failed to get data directory: %w", err)
	}

	ledgersDir := filepath.Join(dataDir, "ledgers")
	if err := os.MkdirAll(ledgersDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledgers directory: %w", err)
	}

	ledgerPath := filepath.Join(ledgersDir, fmt.Sprintf("%s.ledger.json", account))

	return &Manager{
		ledgerPath: ledgerPath,
		logger:     logger.GetLogger(),
	}, nil
}

// LoadOrCreate loads the account's ledger, creating an empty one if none
// exists yet.
func (m *Manager) LoadOrCreate(account string) (*Ledger, error) {
	ledger, err := m.Load()
	if err != nil {
		return nil, err
	}
	if ledger != nil {
		return ledger, nil
	}

	ledger = &Ledger{
		Account:   account,
		Entries:   make(map[string]Entry),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Version:   1,
	}

	if err := m.Save(ledger); err != nil {
		return nil, fmt.Errorf("failed to save initial ledger: %w", err)
	}

	m.logger.InfoWithFields("ledger created", map[string]interface{}{
		"account": account,
		"path":    m.ledgerPath,
	})

	return ledger, nil
}

// Load loads an existing ledger. Returns nil without error if no ledger
// file exists.
func (m *Manager) Load() (*Ledger, error) {
	file, err := os.Open(m.ledgerPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer file.Close()

	var ledger Ledger
	if err := json.NewDecoder(file).Decode(&ledger); err != nil {
		return nil, fmt.Errorf("failed to decode ledger: %w", err)
	}
	if ledger.Entries == nil {
		ledger.Entries = make(map[string]Entry)
	}

	m.logger.DebugWithFields("ledger loaded", map[string]interface{}{
		"account":    ledger.Account,
		"entries":    len(ledger.Entries),
		"updated_at": ledger.UpdatedAt,
	})

	return &ledger, nil
}

// Save writes the ledger to disk atomically. A crash mid-write leaves the
// previous ledger intact, never a truncated file.
func (m *Manager) Save(ledger *Ledger) error {
	ledger.UpdatedAt = time.Now()

	tempPath := m.ledgerPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary ledger file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ledger); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync ledger file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close ledger file: %w", err)
	}

	if err := os.Rename(tempPath, m.ledgerPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}

	return nil
}

// Record adds or overwrites the entry for a handle and persists the ledger
func (m *Manager) Record(ledger *Ledger, handle, kind, outcome string) error {
	ledger.Entries[normalizeHandle(handle)] = Entry{
		Handle:      strings.TrimPrefix(handle, "@"),
		Kind:        kind,
		Outcome:     outcome,
		ProcessedAt: time.Now(),
	}
	return m.Save(ledger)
}

// Delete removes the ledger file
func (m *Manager) Delete() error {
	if err := os.Remove(m.ledgerPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}

	m.logger.Info("ledger deleted")
	return nil
}

// Exists checks if a ledger file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.ledgerPath)
	return err == nil
}

// Path returns the ledger file location
func (m *Manager) Path() string {
	return m.ledgerPath
}

// IsProcessed reports whether a handle already has a ledger entry
func (l *Ledger) IsProcessed(handle string) bool {
	_, exists := l.Entries[normalizeHandle(handle)]
	return exists
}

// Summary aggregates the ledger's entries by kind and outcome
func (l *Ledger) Summary() map[string]int {
	summary := make(map[string]int)
	for _, entry := range l.Entries {
		summary[entry.Kind+"_"+entry.Outcome]++
	}
	return summary
}

// RecentEntries returns up to limit entries ordered newest first
func (l *Ledger) RecentEntries(limit int) []Entry {
	entries := make([]Entry, 0, len(l.Entries))
	for _, e := range l.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ProcessedAt.After(entries[j].ProcessedAt)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// normalizeHandle makes ledger lookups stable across "@name" and "NAME"
// spellings of the same handle.
func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		// Use XDG_DATA_HOME if set, otherwise ~/.local/share
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "xfollower")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "xfollower")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "xfollower")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "xfollower")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return dataDir, nil
}
