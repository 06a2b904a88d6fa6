package transport

import (
	"github.com/fastygo/hunter/domain"
)

// ProfileUpdateRequest changes the user-editable part of a profile. XP, level
// and streak are owned by the progression engine and cannot be set here.
type ProfileUpdateRequest struct {
	Name  *string       `json:"name"`
	Stats *domain.Stats `json:"stats"`
}

// Patch converts the request into a profile patch.
func (r ProfileUpdateRequest) Patch() domain.ProfilePatch {
	return domain.ProfilePatch{Name: r.Name, Stats: r.Stats}
}

// TaskRequest creates a quest. Table selects the reward table by name and
// defaults to the quest modal table.
type TaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Difficulty  string `json:"difficulty"`
	Table       string `json:"table"`
}

func (r TaskRequest) Spec() domain.TaskSpec {
	return domain.TaskSpec{
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Difficulty:  r.Difficulty,
	}
}

type WorkoutRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

func (r WorkoutRequest) Spec() domain.WorkoutSpec {
	return domain.WorkoutSpec{
		Name:     r.Name,
		Type:     r.Type,
		Duration: r.Duration,
	}
}
