package planner

import (
	"fmt"
	"strings"
)

type Mode int

const (
	// ModeFull asks for a whole itinerary of DurationHours activities.
	ModeFull Mode = iota
	// ModeRegenerate asks for one replacement activity.
	ModeRegenerate
	// ModeSupplement asks for Count more activities to top up a short itinerary.
	ModeSupplement
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeRegenerate:
		return "regenerate"
	case ModeSupplement:
		return "supplement"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// PromptContext carries the extra constraints of the non-full modes.
type PromptContext struct {
	Category     Category
	ExcludeNames []string
	Count        int
}

// The per-activity template. parseBlock reads exactly these labels.
const activityTemplate = `REQUIRED FORMAT:
Activity Title: [Exact name of specific venue/place]
Description: [2-3 sentences about why this specific place is perfect for the group]
Duration: 1 hour
Highlight: [One unique or special feature of this specific place]`

// BuildPrompt renders the chat prompt for req. It reads its arguments only.
func BuildPrompt(req TripRequest, mode Mode, pc PromptContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a local expert travel planner for %s. ", orDefault(req.Location, "this area"))
	switch mode {
	case ModeRegenerate:
		b.WriteString("Generate ONE new activity")
	case ModeSupplement:
		fmt.Fprintf(&b, "Generate %d more %s for a %d-hour %s itinerary",
			supplementCount(pc), plural(supplementCount(pc), "activity", "activities"), req.DurationHours, req.TimeOfDay)
	default:
		fmt.Fprintf(&b, "Create a %d-hour %s itinerary", req.DurationHours, req.TimeOfDay)
	}
	b.WriteString(".\n\nRequirements:\n")

	fmt.Fprintf(&b, "- Each activity MUST be a REAL, SPECIFIC venue/location in %s\n", orDefault(req.Location, "the area"))
	b.WriteString("- Each activity must take exactly 1 hour\n")
	fmt.Fprintf(&b, "- Activities must be suitable for %s aged %d-%d\n", groupPhrase(req.GroupSize), req.AgeMin, req.AgeMax)
	fmt.Fprintf(&b, "- Activities must be appropriate for %s time\n", req.TimeOfDay)
	if req.Preferences != "" {
		fmt.Fprintf(&b, "- Consider these preferences: %s\n", req.Preferences)
	}
	if mode != ModeFull && len(pc.ExcludeNames) > 0 {
		fmt.Fprintf(&b, "- Must be different from these places: %s\n", strings.Join(pc.ExcludeNames, ", "))
	}
	if mode == ModeRegenerate && pc.Category != "" {
		fmt.Fprintf(&b, "- Must be a %s activity\n", strings.ToUpper(string(pc.Category)))
	}

	b.WriteString("\n")
	b.WriteString(activityTemplate)
	b.WriteString("\n\n")

	switch mode {
	case ModeRegenerate:
		b.WriteString("Return exactly one activity, numbered 1, in the format above.\n")
	case ModeSupplement:
		n := supplementCount(pc)
		fmt.Fprintf(&b, "Generate exactly %d different %s, numbered 1 through %d.\n", n, plural(n, "activity", "activities"), n)
	default:
		fmt.Fprintf(&b, "Generate exactly %d different %s, numbered 1 through %d.\n",
			req.DurationHours, plural(req.DurationHours, "activity", "activities"), req.DurationHours)
	}
	b.WriteString("Focus on highly-rated, popular places that are currently open and operational.")

	return b.String()
}

func supplementCount(pc PromptContext) int {
	if pc.Count < 1 {
		return 1
	}
	return pc.Count
}

func groupPhrase(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "person", "people"))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
