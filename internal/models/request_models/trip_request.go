package request_models

import "dayout/internal/planner"

// TripRequestBody is the form as posted by the client. Omitted fields keep
// the value the session already holds.
type TripRequestBody struct {
	AgeMin        *int    `json:"age_min"`
	AgeMax        *int    `json:"age_max"`
	GroupSize     *int    `json:"group_size"`
	Location      *string `json:"location"`
	DurationHours *int    `json:"duration_hours"`
	TimeOfDay     *string `json:"time_of_day"`
	Preferences   *string `json:"preferences"`
}

func (b TripRequestBody) Apply(base planner.TripRequest) planner.TripRequest {
	if b.AgeMin != nil {
		base.AgeMin = *b.AgeMin
	}
	if b.AgeMax != nil {
		base.AgeMax = *b.AgeMax
	}
	if b.GroupSize != nil {
		base.GroupSize = *b.GroupSize
	}
	if b.Location != nil {
		base.Location = *b.Location
	}
	if b.DurationHours != nil {
		base.DurationHours = *b.DurationHours
	}
	if b.TimeOfDay != nil {
		base.TimeOfDay = planner.TimeOfDay(*b.TimeOfDay)
	}
	if b.Preferences != nil {
		base.Preferences = *b.Preferences
	}
	return base
}

type PlaceLookupQuery struct {
	Name     string `form:"name" binding:"required"`
	Location string `form:"location"`
}
