package twitter

// User represents an X account as returned by the API
type User struct {
	ID             int64  `json:"id"`
	IDStr          string `json:"id_str"`
	ScreenName     string `json:"screen_name"`
	Name           string `json:"name"`
	FollowersCount int    `json:"followers_count"`
	FriendsCount   int    `json:"friends_count"` // accounts this user follows
	Verified       bool   `json:"verified"`
	IsBlueVerified bool   `json:"is_blue_verified"`
	Protected      bool   `json:"protected"`
	Following      bool   `json:"following"`
}

// FollowersPage is one page of a cursored followers listing
type FollowersPage struct {
	Users             []User `json:"users"`
	NextCursor        int64  `json:"next_cursor"`
	NextCursorStr     string `json:"next_cursor_str"`
	PreviousCursorStr string `json:"previous_cursor_str"`
}

// HasMore reports whether another page of followers exists
func (p *FollowersPage) HasMore() bool {
	return p.NextCursorStr != "" && p.NextCursorStr != "0"
}

// IsVerified reports legacy or blue-check verification
func (u *User) IsVerified() bool {
	return u.Verified || u.IsBlueVerified
}
