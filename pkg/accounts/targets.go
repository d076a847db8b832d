package accounts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Target is an account whose followers are harvested as follow candidates
type Target struct {
	Handle string `json:"handle"`
	// MaxFollowers caps how many followers to fetch from this target
	MaxFollowers int `json:"max_followers"`
	// MinFollowersCount filters out throwaway accounts
	MinFollowersCount int `json:"min_followers_count"`
	// MaxFollowingCount filters out follow-spam accounts
	MaxFollowingCount int `json:"max_following_count"`
	VerifiedOnly      bool `json:"verified_only"`
}

// TargetList is the on-disk targets file
type TargetList struct {
	Targets []Target `json:"targets"`
}

// LoadTargets reads the targets file. If it does not exist a default file
// is created so the user has a template to edit.
func LoadTargets(path string) (*TargetList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			list := defaultTargets()
			if saveErr := SaveTargets(path, list); saveErr != nil {
				return nil, fmt.Errorf("failed to create default targets file: %w", saveErr)
			}
			return list, nil
		}
		return nil, fmt.Errorf("failed to read targets file %s: %w", path, err)
	}

	var list TargetList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse targets file %s: %w", path, err)
	}

	for i := range list.Targets {
		list.Targets[i].normalize()
	}

	return &list, nil
}

// SaveTargets writes the targets file with stable formatting
func SaveTargets(path string, list *TargetList) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode targets: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write targets file %s: %w", path, err)
	}
	return nil
}

func defaultTargets() *TargetList {
	return &TargetList{
		Targets: []Target{
			{
				Handle:            "elonmusk",
				MaxFollowers:      100,
				MinFollowersCount: 10,
				MaxFollowingCount: 5000,
				VerifiedOnly:      false,
			},
		},
	}
}

func (t *Target) normalize() {
	t.Handle = strings.TrimPrefix(strings.TrimSpace(t.Handle), "@")
	if t.MaxFollowers <= 0 {
		t.MaxFollowers = 100
	}
	if t.MinFollowersCount < 0 {
		t.MinFollowersCount = 0
	}
	if t.MaxFollowingCount <= 0 {
		t.MaxFollowingCount = 5000
	}
}
