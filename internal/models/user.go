package models

import "time"

// User is a registered platform user. PasswordHash is a bcrypt hash and is
// never serialized into API responses.
type User struct {
	ID               string    `json:"id" badgerhold:"key"`
	Username         string    `json:"username" badgerhold:"unique"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	LearningPoints   int       `json:"learning_points"`
	CurrentLevel     int       `json:"current_level"`
	CompletedModules []int     `json:"completed_modules"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasCompletedModule reports whether the module id is in the completed list.
func (u *User) HasCompletedModule(id int) bool {
	for _, m := range u.CompletedModules {
		if m == id {
			return true
		}
	}
	return false
}

// LearningModule is one course in the education catalog.
type LearningModule struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Level       string          `json:"level"` // Beginner, Intermediate, Advanced
	Duration    string          `json:"duration"`
	Icon        string          `json:"image"`
	Completed   bool            `json:"completed"`
	Content     []ModuleContent `json:"content"`
}

// ModuleContent is a single lesson item within a learning module.
type ModuleContent struct {
	Type    string `json:"type"` // text, video, quiz, interactive, case_study, practical
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ModuleCompletion is the result of completing a learning module.
type ModuleCompletion struct {
	Message          string `json:"message"`
	PointsEarned     int    `json:"points_earned"`
	TotalPoints      int    `json:"total_points"`
	CurrentLevel     int    `json:"current_level"`
	CompletedModules []int  `json:"completed_modules"`
}
