package models

import "strings"

// Habit is a recurring activity the user tracks daily.
type Habit struct {
	HabitID     int64  `json:"habit_id"`
	Description string `json:"habit_description"`
}

// Task is a to-do item.
type Task struct {
	TaskID      int64  `json:"task_id"`
	Description string `json:"task_description"`
}

// Goal is a longer-term objective with a completion flag.
type Goal struct {
	GoalID      int64  `json:"goal_id"`
	Description string `json:"goal_description"`
	Completed   bool   `json:"completed"`
}

// Schedule is a calendar event. Date is "YYYY-MM-DD"; TimeFrame is either
// "HH:MM" or "HH:MM-HH:MM" (seconds may trail and are ignored); EndTime may
// carry the end separately when TimeFrame holds only the start.
type Schedule struct {
	ScheduleID int64  `json:"schedule_id"`
	Activity   string `json:"activity"`
	Date       string `json:"date"`
	TimeFrame  string `json:"time_frame"`
	EndTime    string `json:"end_time,omitempty"`
}

// Times splits the schedule's time frame into "HH:MM" start and end values.
// A missing end falls back to EndTime, then to the start itself.
func (s Schedule) Times() (start, end string) {
	start, end = "00:00", "00:00"
	tf := s.TimeFrame
	if tf == "" {
		return start, end
	}
	if i := strings.Index(tf, "-"); i >= 0 {
		start = clipHHMM(tf[:i])
		end = clipHHMM(tf[i+1:])
		return start, end
	}
	start = clipHHMM(tf)
	if s.EndTime != "" {
		end = clipHHMM(s.EndTime)
	} else {
		end = start
	}
	return start, end
}

func clipHHMM(v string) string {
	if len(v) > 5 {
		return v[:5]
	}
	return v
}
