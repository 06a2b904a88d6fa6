package progression

import (
	"time"

	"github.com/fastygo/hunter/domain"
)

type rankTier struct {
	minLevel int
	title    string
}

var rankTiers = []rankTier{
	{50, "S-Rank Hunter"},
	{30, "A-Rank Hunter"},
	{20, "B-Rank Hunter"},
	{10, "C-Rank Hunter"},
	{5, "D-Rank Hunter"},
}

// RankTitle names the hunter rank of level.
func RankTitle(level int) string {
	for _, tier := range rankTiers {
		if level >= tier.minLevel {
			return tier.title
		}
	}
	return "E-Rank Awakened"
}

// Achievement is a badge and whether it has been earned.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Earned      bool   `json:"earned"`
}

// AchievementInput is what the badge rules look at.
type AchievementInput struct {
	CompletedTasks int
	Workouts       int
	Streak         int
	Level          int
}

// Achievements evaluates every badge against in.
func Achievements(in AchievementInput) []Achievement {
	return []Achievement{
		{ID: "first_steps", Name: "First Steps", Description: "Complete your first quest", Earned: in.CompletedTasks > 0},
		{ID: "consistency_master", Name: "Consistency Master", Description: "Maintain a 7-day streak", Earned: in.Streak >= 7},
		{ID: "workout_warrior", Name: "Workout Warrior", Description: "Complete 10 workouts", Earned: in.Workouts >= 10},
		{ID: "level_up", Name: "Level Up", Description: "Reach level 5", Earned: in.Level >= 5},
		{ID: "level_master", Name: "Level Master", Description: "Reach level 10", Earned: in.Level >= 10},
	}
}

// WeekDays is the length of the weekly progress window.
const WeekDays = 7

// minDailyTotal is the smallest per-day total reported.
const minDailyTotal = 3

// DayProgress is one bar of the weekly chart.
type DayProgress struct {
	Day       string    `json:"day"`
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
}

// WeeklyProgress returns the last seven days up to and including now's day,
// oldest first.
func WeeklyProgress(tasks []domain.Task, now time.Time) []DayProgress {
	y, m, d := now.Date()
	out := make([]DayProgress, 0, WeekDays)

	for i := WeekDays - 1; i >= 0; i-- {
		day := dayStart(y, m, d-i, now.Location())
		_, end := DayBounds(day)

		daily := 0
		for _, t := range tasks {
			if t.Type == domain.TaskTypeDaily && !t.CreatedAt.After(end) {
				daily++
			}
		}

		out = append(out, DayProgress{
			Day:       day.Format("Mon"),
			Date:      day,
			Completed: CompletedOn(tasks, day),
			Total:     max(daily, minDailyTotal),
		})
	}
	return out
}

// CountCompleted returns how many tasks are currently completed.
func CountCompleted(tasks []domain.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
