package accounts

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"

	"xfollower/pkg/ledger"
	"xfollower/pkg/scheduler"
)

// Priority levels for follow candidates
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Candidate is one account queued for following
type Candidate struct {
	Handle         string `json:"handle"`
	Name           string `json:"name,omitempty"`
	Priority       string `json:"priority,omitempty"`
	Category       string `json:"category,omitempty"`
	SourceAccount  string `json:"source_account,omitempty"`
	FollowersCount int    `json:"followers_count,omitempty"`
	FollowingCount int    `json:"following_count,omitempty"`
	Verified       bool   `json:"verified,omitempty"`
}

// CandidateList is the on-disk accounts file
type CandidateList struct {
	Accounts []Candidate `json:"accounts"`
}

// LoadCandidates reads the accounts file. A missing file yields an empty
// list rather than an error so a fresh setup works without scaffolding.
func LoadCandidates(path string) (*CandidateList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &CandidateList{}, nil
		}
		return nil, fmt.Errorf("failed to read accounts file %s: %w", path, err)
	}

	var list CandidateList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file %s: %w", path, err)
	}

	return &list, nil
}

// SaveCandidates writes the accounts file with stable formatting
func SaveCandidates(path string, list *CandidateList) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write accounts file %s: %w", path, err)
	}
	return nil
}

// Merge appends candidates whose handles are not already present and
// returns how many were added.
func (cl *CandidateList) Merge(candidates []Candidate) int {
	seen := make(map[string]bool, len(cl.Accounts))
	for _, c := range cl.Accounts {
		seen[normalizeHandle(c.Handle)] = true
	}

	added := 0
	for _, c := range candidates {
		key := normalizeHandle(c.Handle)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		cl.Accounts = append(cl.Accounts, c)
		added++
	}
	return added
}

// FilterByPriority keeps candidates with the given priority level
func (cl *CandidateList) FilterByPriority(priority string) []Candidate {
	var out []Candidate
	for _, c := range cl.Accounts {
		if strings.EqualFold(c.Priority, priority) {
			out = append(out, c)
		}
	}
	return out
}

// FilterByCategory keeps candidates with the given category
func (cl *CandidateList) FilterByCategory(category string) []Candidate {
	var out []Candidate
	for _, c := range cl.Accounts {
		if strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

// ExcludeProcessed drops candidates that already have a ledger entry
func ExcludeProcessed(candidates []Candidate, l *ledger.Ledger) []Candidate {
	if l == nil {
		return candidates
	}
	var out []Candidate
	for _, c := range candidates {
		if !l.IsProcessed(c.Handle) {
			out = append(out, c)
		}
	}
	return out
}

// SmartOrder sorts candidates high priority first, then medium, then low.
// Candidates without a priority sort last. Ordering within a level is
// preserved.
func SmartOrder(candidates []Candidate) []Candidate {
	rank := func(p string) int {
		switch strings.ToLower(p) {
		case PriorityHigh:
			return 0
		case PriorityMedium:
			return 1
		case PriorityLow:
			return 2
		default:
			return 3
		}
	}

	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].Priority) < rank(out[j].Priority)
	})
	return out
}

// Shuffle randomizes candidate order in place
func Shuffle(candidates []Candidate, rng *rand.Rand) {
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
}

// ToRequests converts candidates into scheduler requests of the given kind
func ToRequests(candidates []Candidate, kind scheduler.ActionKind) []scheduler.Request {
	reqs := make([]scheduler.Request, 0, len(candidates))
	for _, c := range candidates {
		reqs = append(reqs, scheduler.Request{
			Handle: strings.TrimPrefix(c.Handle, "@"),
			Kind:   kind,
		})
	}
	return reqs
}

func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
