package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTargetsCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")

	list, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, list.Targets, 1)
	assert.Equal(t, "elonmusk", list.Targets[0].Handle)

	// The default file was written so the user can edit it.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoadTargetsNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	raw := `{"targets": [{"handle": "@SomeAccount", "max_followers": 0, "min_followers_count": -5}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	list, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, list.Targets, 1)

	target := list.Targets[0]
	assert.Equal(t, "SomeAccount", target.Handle)
	assert.Equal(t, 100, target.MaxFollowers)
	assert.Equal(t, 0, target.MinFollowersCount)
	assert.Equal(t, 5000, target.MaxFollowingCount)
}

func TestLoadTargetsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	_, err := LoadTargets(path)
	assert.Error(t, err)
}

func TestSaveTargetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	list := &TargetList{Targets: []Target{
		{Handle: "golang", MaxFollowers: 50, MinFollowersCount: 20, MaxFollowingCount: 2000, VerifiedOnly: true},
	}}

	require.NoError(t, SaveTargets(path, list))

	loaded, err := LoadTargets(path)
	require.NoError(t, err)
	require.Len(t, loaded.Targets, 1)
	assert.Equal(t, list.Targets[0], loaded.Targets[0])
}
