package domain

// LeaderboardEntry is one ranked row of the leaderboard. Rank is 1-based.
type LeaderboardEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	TotalXP int    `json:"total_xp"`
	Rank    int    `json:"rank"`
}
