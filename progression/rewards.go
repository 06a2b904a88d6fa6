package progression

import (
	"math"
	"strings"

	"github.com/fastygo/hunter/domain"
)

// Difficulty levels accepted by the quest tables.
const (
	DifficultyEasy    = "easy"
	DifficultyMedium  = "medium"
	DifficultyHard    = "hard"
	DifficultyExtreme = "extreme"
)

// RewardTable maps a difficulty to the XP a new task is worth.
type RewardTable struct {
	Name    string
	Rewards map[string]int
	// Fallback is used for unknown difficulties; zero rejects them.
	Fallback int
}

// QuestModalRewards is the table of the "new quest" dialog.
var QuestModalRewards = RewardTable{
	Name: "quest_modal",
	Rewards: map[string]int{
		DifficultyEasy:    10,
		DifficultyMedium:  20,
		DifficultyHard:    35,
		DifficultyExtreme: 50,
	},
	Fallback: 10,
}

// QuestBoardRewards is the table of the quest board quick-add form.
var QuestBoardRewards = RewardTable{
	Name: "quest_board",
	Rewards: map[string]int{
		DifficultyEasy:   25,
		DifficultyMedium: 50,
		DifficultyHard:   100,
	},
}

// RewardTables indexes the known tables by name.
var RewardTables = map[string]RewardTable{
	QuestModalRewards.Name: QuestModalRewards,
	QuestBoardRewards.Name: QuestBoardRewards,
}

// Reward returns the XP for difficulty.
func (t RewardTable) Reward(difficulty string) (int, error) {
	if xp, ok := t.Rewards[normalize(difficulty)]; ok {
		return xp, nil
	}
	if t.Fallback > 0 {
		return t.Fallback, nil
	}
	return 0, domain.Invalid("unknown difficulty %q", difficulty)
}

// Workout types and their XP per minute.
const (
	WorkoutStrength    = "strength"
	WorkoutCardio      = "cardio"
	WorkoutFlexibility = "flexibility"
	WorkoutEndurance   = "endurance"
)

var workoutMultipliers = map[string]float64{
	WorkoutStrength:    2,
	WorkoutCardio:      1.5,
	WorkoutFlexibility: 1,
	WorkoutEndurance:   2.5,
}

// WorkoutMultiplier returns the multiplier of workoutType; unknown types earn 1 XP per minute.
func WorkoutMultiplier(workoutType string) float64 {
	if m, ok := workoutMultipliers[normalize(workoutType)]; ok {
		return m
	}
	return 1
}

// WorkoutXP is floor(duration * multiplier).
func WorkoutXP(workoutType string, duration int) int {
	return int(math.Floor(float64(duration) * WorkoutMultiplier(workoutType)))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
