package entity

// Game is an entry of the static game catalog.
type Game struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Difficulty     string `json:"difficulty"`
	Category       string `json:"category"`
	XPReward       int    `json:"xpReward,omitempty"`
	MaxTimeSeconds int    `json:"maxTimeSeconds,omitempty"`
	MinScoreForWin int    `json:"minScoreForWin,omitempty"`
}

// Question is a quiz question read model.
type Question struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
}

// PasswordTarget is a target for the password-cracker game.
type PasswordTarget struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	RequiredKeywords []string `json:"requiredKeywords"`
	Difficulty       string   `json:"difficulty"`
	Color            string   `json:"color"`
}

// Progress is the view of a user's progression.
type Progress struct {
	Level          int      `json:"level"`
	XP             int      `json:"xp"`
	NextLevelXP    *int     `json:"nextLevelXp"`
	CompletedGames []string `json:"completedGames"`
}

func (u *User) Progress() Progress {
	p := Progress{Level: u.Level, XP: u.XP, CompletedGames: u.CompletedGames}
	if p.CompletedGames == nil {
		p.CompletedGames = []string{}
	}
	if next, ok := NextLevelXP(u.XP); ok {
		p.NextLevelXP = &next
	}
	return p
}
