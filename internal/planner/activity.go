package planner

// Activity is one itinerary entry. Name is its identity for de-duplication.
type Activity struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	DurationLabel string `json:"duration"`
	Highlight     string `json:"highlight"`
}

const (
	defaultDurationLabel = "1 hour"
	parseFailedName      = "Error Parsing Activities"
)

// ParseFailedActivity is the placeholder returned when nothing in a model
// response could be turned into an activity.
func ParseFailedActivity() Activity {
	return Activity{
		Name:          parseFailedName,
		Description:   "Please try regenerating the itinerary",
		DurationLabel: defaultDurationLabel,
		Highlight:     "Please try again",
	}
}

// IsParseFailure reports whether a is the placeholder from ParseFailedActivity.
func (a Activity) IsParseFailure() bool {
	return a.Name == parseFailedName
}
