package planner

import (
	"fmt"
	"strings"

	"dayout/pkg/utils"
)

type TimeOfDay string

const (
	TimeOfDayDay       TimeOfDay = "day"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayNight     TimeOfDay = "night"
)

const (
	MinAge           = 0
	MaxAge           = 100
	MinDurationHours = 1
	MaxDurationHours = 12
)

// TripRequest is the user's constraints for one itinerary. It is treated as a
// value: the session stores a copy and replaces it wholesale.
type TripRequest struct {
	AgeMin        int       `json:"age_min"`
	AgeMax        int       `json:"age_max"`
	GroupSize     int       `json:"group_size"`
	Location      string    `json:"location"`
	DurationHours int       `json:"duration_hours"`
	TimeOfDay     TimeOfDay `json:"time_of_day"`
	Preferences   string    `json:"preferences"`
}

// DefaultTripRequest returns the values the form shows after a reset.
func DefaultTripRequest() TripRequest {
	return TripRequest{
		AgeMin:        18,
		AgeMax:        30,
		GroupSize:     1,
		DurationHours: 4,
		TimeOfDay:     TimeOfDayDay,
	}
}

// Normalize trims the free-text fields.
func (r TripRequest) Normalize() TripRequest {
	r.Location = strings.TrimSpace(r.Location)
	r.Preferences = strings.TrimSpace(r.Preferences)
	r.TimeOfDay = TimeOfDay(strings.ToLower(strings.TrimSpace(string(r.TimeOfDay))))
	return r
}

func (r TripRequest) Validate() error {
	var problems []string

	if r.AgeMin < MinAge || r.AgeMax > MaxAge {
		problems = append(problems, fmt.Sprintf("ages must be within %d-%d", MinAge, MaxAge))
	}
	if r.AgeMin >= r.AgeMax {
		problems = append(problems, "age_min must be lower than age_max")
	}
	if r.GroupSize < 1 {
		problems = append(problems, "group_size must be at least 1")
	}
	if r.DurationHours < MinDurationHours || r.DurationHours > MaxDurationHours {
		problems = append(problems, fmt.Sprintf("duration_hours must be within %d-%d", MinDurationHours, MaxDurationHours))
	}
	switch r.TimeOfDay {
	case TimeOfDayDay, TimeOfDayAfternoon, TimeOfDayNight:
	default:
		problems = append(problems, "time_of_day must be one of day, afternoon, night")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", utils.ErrInvalidInput, strings.Join(problems, "; "))
	}
	return nil
}
