package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"companion/pkg/models"
)

func userQuery(userID int64) url.Values {
	q := url.Values{}
	q.Set("user_id", strconv.FormatInt(userID, 10))
	return q
}

// Habits lists the user's habits.
func (c *Client) Habits(ctx context.Context, userID int64) ([]models.Habit, error) {
	var out []models.Habit
	if err := c.do(ctx, "crud", "GET", "/habits", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateHabit adds a habit.
func (c *Client) CreateHabit(ctx context.Context, userID int64, description string) error {
	body := map[string]string{"habit_description": description}
	return c.do(ctx, "crud", "POST", "/habits", userQuery(userID), body, nil)
}

// UpdateHabit rewrites a habit's description.
func (c *Client) UpdateHabit(ctx context.Context, userID, habitID int64, description string) error {
	body := map[string]string{"habit_description": description}
	return c.do(ctx, "crud", "PUT", fmt.Sprintf("/habits/%d", habitID), userQuery(userID), body, nil)
}

// DeleteHabit removes a habit.
func (c *Client) DeleteHabit(ctx context.Context, userID, habitID int64) error {
	return c.do(ctx, "crud", "DELETE", fmt.Sprintf("/habits/%d", habitID), userQuery(userID), nil, nil)
}

// Schedules lists the user's calendar events.
func (c *Client) Schedules(ctx context.Context, userID int64) ([]models.Schedule, error) {
	var out []models.Schedule
	if err := c.do(ctx, "crud", "GET", "/schedules", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSchedule adds a calendar event.
func (c *Client) CreateSchedule(ctx context.Context, userID int64, activity, date, timeFrame string) error {
	body := map[string]string{"activity": activity, "date": date, "time_frame": timeFrame}
	return c.do(ctx, "crud", "POST", "/schedules", userQuery(userID), body, nil)
}

// UpdateSchedule rewrites a calendar event.
func (c *Client) UpdateSchedule(ctx context.Context, userID, scheduleID int64, activity, date, timeFrame string) error {
	body := map[string]string{"activity": activity, "date": date, "time_frame": timeFrame}
	return c.do(ctx, "crud", "PUT", fmt.Sprintf("/schedules/%d", scheduleID), userQuery(userID), body, nil)
}

// DeleteSchedule removes a calendar event.
func (c *Client) DeleteSchedule(ctx context.Context, userID, scheduleID int64) error {
	return c.do(ctx, "crud", "DELETE", fmt.Sprintf("/schedules/%d", scheduleID), userQuery(userID), nil, nil)
}

// Tasks lists the user's to-do items.
func (c *Client) Tasks(ctx context.Context, userID int64) ([]models.Task, error) {
	var out []models.Task
	if err := c.do(ctx, "crud", "GET", "/tasks", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTask adds a to-do item and returns the created record.
func (c *Client) CreateTask(ctx context.Context, userID int64, description string) (models.Task, error) {
	body := map[string]string{"task_description": description}
	var out models.Task
	if err := c.do(ctx, "crud", "POST", "/tasks", userQuery(userID), body, &out); err != nil {
		return models.Task{}, err
	}
	return out, nil
}

// UpdateTask rewrites a to-do item and returns the updated record.
func (c *Client) UpdateTask(ctx context.Context, userID, taskID int64, description string) (models.Task, error) {
	body := map[string]string{"task_description": description}
	var out models.Task
	if err := c.do(ctx, "crud", "PUT", fmt.Sprintf("/tasks/%d", taskID), userQuery(userID), body, &out); err != nil {
		return models.Task{}, err
	}
	return out, nil
}

// DeleteTask removes a to-do item.
func (c *Client) DeleteTask(ctx context.Context, userID, taskID int64) error {
	return c.do(ctx, "crud", "DELETE", fmt.Sprintf("/tasks/%d", taskID), userQuery(userID), nil, nil)
}

// Goals lists the user's goals.
func (c *Client) Goals(ctx context.Context, userID int64) ([]models.Goal, error) {
	var out []models.Goal
	if err := c.do(ctx, "crud", "GET", "/goals", userQuery(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateGoal adds a goal.
func (c *Client) CreateGoal(ctx context.Context, userID int64, description string) error {
	body := map[string]string{"goal_description": description}
	return c.do(ctx, "crud", "POST", "/goals", userQuery(userID), body, nil)
}

// UpdateGoal rewrites a goal's description and completion flag.
func (c *Client) UpdateGoal(ctx context.Context, userID, goalID int64, description string, completed bool) error {
	body := map[string]any{"goal_description": description, "completed": completed}
	return c.do(ctx, "crud", "PUT", fmt.Sprintf("/goals/%d", goalID), userQuery(userID), body, nil)
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	return c.do(ctx, "crud", "DELETE", fmt.Sprintf("/goals/%d", goalID), userQuery(userID), nil, nil)
}

// Statistics fetches the user's aggregate usage summary.
func (c *Client) Statistics(ctx context.Context, userID int64) (models.Statistics, error) {
	var out models.Statistics
	if err := c.do(ctx, "crud", "GET", "/user/statistics", userQuery(userID), nil, &out); err != nil {
		return models.Statistics{}, err
	}
	return out, nil
}
