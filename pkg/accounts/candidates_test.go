package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"xfollower/pkg/ledger"
	"xfollower/pkg/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCandidates() *CandidateList {
	return &CandidateList{
		Accounts: []Candidate{
			{Handle: "alice", Priority: "high", Category: "tech"},
			{Handle: "bob", Priority: "low", Category: "tech"},
			{Handle: "carol", Priority: "medium", Category: "art"},
			{Handle: "dave", Priority: "high", Category: "art"},
			{Handle: "erin", Category: "tech"},
		},
	}
}

func TestLoadAndSaveCandidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accounts.json")

	require.NoError(t, SaveCandidates(path, sampleCandidates()))

	loaded, err := LoadCandidates(path)
	require.NoError(t, err)
	require.Len(t, loaded.Accounts, 5)
	assert.Equal(t, "alice", loaded.Accounts[0].Handle)
	assert.Equal(t, "high", loaded.Accounts[0].Priority)
}

func TestLoadCandidatesMissingFile(t *testing.T) {
	loaded, err := LoadCandidates(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, loaded.Accounts)
}

func TestLoadCandidatesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadCandidates(path)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	list := sampleCandidates()

	added := list.Merge([]Candidate{
		{Handle: "frank"},
		{Handle: "@Alice"}, // duplicate, different spelling
		{Handle: "bob"},    // duplicate
		{Handle: "grace"},
	})

	assert.Equal(t, 2, added)
	assert.Len(t, list.Accounts, 7)
}

func TestFilters(t *testing.T) {
	list := sampleCandidates()

	high := list.FilterByPriority("high")
	require.Len(t, high, 2)
	assert.Equal(t, "alice", high[0].Handle)
	assert.Equal(t, "dave", high[1].Handle)

	tech := list.FilterByCategory("tech")
	assert.Len(t, tech, 3)

	assert.Empty(t, list.FilterByPriority("urgent"))
}

func TestExcludeProcessed(t *testing.T) {
	tempDir := t.TempDir()
	os.Setenv("XDG_DATA_HOME", tempDir)
	defer os.Unsetenv("XDG_DATA_HOME")

	mgr, err := ledger.NewManager("tester")
	require.NoError(t, err)
	l, err := mgr.LoadOrCreate("tester")
	require.NoError(t, err)
	require.NoError(t, mgr.Record(l, "alice", "follow", "succeeded"))
	require.NoError(t, mgr.Record(l, "dave", "follow", "failed"))

	remaining := ExcludeProcessed(sampleCandidates().Accounts, l)
	require.Len(t, remaining, 3)
	for _, c := range remaining {
		assert.NotContains(t, []string{"alice", "dave"}, c.Handle)
	}
}

func TestSmartOrder(t *testing.T) {
	ordered := SmartOrder(sampleCandidates().Accounts)

	got := make([]string, len(ordered))
	for i, c := range ordered {
		got[i] = c.Handle
	}
	// High first, then medium, then low, unprioritized last. Stable within
	// each level.
	assert.Equal(t, []string{"alice", "dave", "carol", "bob", "erin"}, got)
}

func TestToRequests(t *testing.T) {
	reqs := ToRequests([]Candidate{{Handle: "@alice"}, {Handle: "bob"}}, scheduler.ActionFollow)

	require.Len(t, reqs, 2)
	assert.Equal(t, "alice", reqs[0].Handle)
	assert.Equal(t, scheduler.ActionFollow, reqs[0].Kind)
}
