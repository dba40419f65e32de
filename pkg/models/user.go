package models

// User is the authenticated account as returned by the auth endpoints.
type User struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Statistics is the aggregate usage summary for one user.
type Statistics struct {
	TasksTotal     int `json:"tasks_total"`
	TasksCompleted int `json:"tasks_completed"`
	HabitsTotal    int `json:"habits_total"`
	GoalsTotal     int `json:"goals_total"`
	GoalsCompleted int `json:"goals_completed"`
	EventsTotal    int `json:"events_total"`
}
