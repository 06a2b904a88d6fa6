package domain

import "time"

// Profile is a user's aggregate progression state.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	TotalXP   int    `json:"total_xp"`
	CurrentXP int    `json:"current_xp"`
	Streak    int    `json:"streak"`
	Stats
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats are the six attribute values shown on the profile screen. The
// progression engine never reads or writes them.
type Stats struct {
	Strength     int `json:"strength"`
	Endurance    int `json:"endurance"`
	Discipline   int `json:"discipline"`
	Agility      int `json:"agility"`
	Intelligence int `json:"intelligence"`
	Luck         int `json:"luck"`
}

// NewProfile returns a level 1 profile with no XP.
func NewProfile(id, email, name string) *Profile {
	return &Profile{
		ID:    id,
		Email: email,
		Name:  name,
		Level: 1,
	}
}

func (p *Profile) Touch() {
	if p == nil {
		return
	}
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
}

// ProfilePatch represents a partial profile update.
// nil pointer => "no change".
type ProfilePatch struct {
	Name      *string `json:"name,omitempty"`
	Level     *int    `json:"level,omitempty"`
	TotalXP   *int    `json:"total_xp,omitempty"`
	CurrentXP *int    `json:"current_xp,omitempty"`
	Streak    *int    `json:"streak,omitempty"`
	Stats     *Stats  `json:"stats,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Level == nil && p.TotalXP == nil &&
		p.CurrentXP == nil && p.Streak == nil && p.Stats == nil
}

// Apply copies every non-nil field onto profile.
func (p ProfilePatch) Apply(profile *Profile) {
	if profile == nil {
		return
	}
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Level != nil {
		profile.Level = *p.Level
	}
	if p.TotalXP != nil {
		profile.TotalXP = *p.TotalXP
	}
	if p.CurrentXP != nil {
		profile.CurrentXP = *p.CurrentXP
	}
	if p.Streak != nil {
		profile.Streak = *p.Streak
	}
	if p.Stats != nil {
		profile.Stats = *p.Stats
	}
}

// ProgressPatch returns the patch carrying the engine-owned fields of profile.
func ProgressPatch(profile *Profile) ProfilePatch {
	level, total, current, streak := profile.Level, profile.TotalXP, profile.CurrentXP, profile.Streak
	return ProfilePatch{
		Level:     &level,
		TotalXP:   &total,
		CurrentXP: &current,
		Streak:    &streak,
	}
}
