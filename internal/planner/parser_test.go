package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayout/internal/planner"
)

const twoActivities = `1. Activity Title: Zilker Park
Description: A huge green space by the river.
Duration: 1 hour
Highlight: Barton Springs Pool

2. Activity Title: Franklin Barbecue
Description: Legendary brisket worth the wait.
Duration: 1 hour
Highlight: The line is part of the fun
`

func TestParse_WellFormed(t *testing.T) {
	got := planner.Parse(twoActivities, nil)

	require.Len(t, got, 2)
	assert.Equal(t, planner.Activity{
		Name:          "Zilker Park",
		Description:   "A huge green space by the river.",
		DurationLabel: "1 hour",
		Highlight:     "Barton Springs Pool",
	}, got[0])
	assert.Equal(t, "Franklin Barbecue", got[1].Name)
	assert.Equal(t, "The line is part of the fun", got[1].Highlight)
}

func TestParse_EmptyAndGarbageYieldPlaceholder(t *testing.T) {
	for _, raw := range []string{"", "   \n\n", "Sorry, I can't help with that request."} {
		got := planner.Parse(raw, nil)

		require.Len(t, got, 1, "input %q", raw)
		assert.True(t, got[0].IsParseFailure())
		assert.Equal(t, planner.ParseFailedActivity(), got[0])
	}
}

func TestParse_PlaceholderFields(t *testing.T) {
	a := planner.ParseFailedActivity()

	assert.Equal(t, "Error Parsing Activities", a.Name)
	assert.Equal(t, "Please try regenerating the itinerary", a.Description)
	assert.Equal(t, "1 hour", a.DurationLabel)
	assert.Equal(t, "Please try again", a.Highlight)
}

func TestParse_SkipsUsedNames(t *testing.T) {
	used := planner.NewUsedNames()
	used.Add("Zilker Park")

	got := planner.Parse(twoActivities, used)

	require.Len(t, got, 1)
	assert.Equal(t, "Franklin Barbecue", got[0].Name)
}

func TestParse_AllUsedYieldsPlaceholder(t *testing.T) {
	used := planner.NewUsedNames()
	used.Add("Zilker Park")
	used.Add("Franklin Barbecue")

	res := planner.ParseDetailed(twoActivities, used)

	assert.True(t, res.Failed)
	assert.Equal(t, []string{"Zilker Park", "Franklin Barbecue"}, res.Duplicates)
	require.Len(t, res.Activities, 1)
	assert.True(t, res.Activities[0].IsParseFailure())
}

func TestParse_DropsUntitledBlock(t *testing.T) {
	raw := `1. Activity Title: Blanton Museum of Art
Description: Big university art museum.
Duration: 1 hour
Highlight: Ellsworth Kelly's Austin

2. Description: A place with no name.
Duration: 1 hour
Highlight: Nothing`

	res := planner.ParseDetailed(raw, nil)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, "Blanton Museum of Art", res.Activities[0].Name)
	assert.Equal(t, 1, res.Untitled)
	assert.False(t, res.Failed)
}

func TestParse_DropsRepeatWithinResponse(t *testing.T) {
	raw := "1. Activity Title: Mozart's Coffee\n2. Activity Title: Mozart's Coffee\n"

	res := planner.ParseDetailed(raw, nil)

	require.Len(t, res.Activities, 1)
	assert.Equal(t, []string{"Mozart's Coffee"}, res.Duplicates)
}

func TestParse_DefaultsMissingOptionalFields(t *testing.T) {
	got := planner.Parse("1. Activity Title: Mount Bonnell", nil)

	require.Len(t, got, 1)
	assert.Equal(t, planner.Activity{Name: "Mount Bonnell", DurationLabel: "1 hour"}, got[0])
}

func TestParse_ToleratesPreambleMarkdownAndCRLF(t *testing.T) {
	raw := "Here is your itinerary:\r\n\r\n" +
		"**1.** **Activity Title:** Barton Creek Greenbelt\r\n" +
		"- **Description:** Shaded hiking trail.\r\n" +
		"- **Duration:** 1 hour\r\n" +
		"- **Highlight:** Swimming holes\r\n"

	got := planner.Parse(raw, nil)

	require.Len(t, got, 1)
	assert.Equal(t, planner.Activity{
		Name:          "Barton Creek Greenbelt",
		Description:   "Shaded hiking trail.",
		DurationLabel: "1 hour",
		Highlight:     "Swimming holes",
	}, got[0])
}

func TestParse_NumbersInsideTextDoNotSplit(t *testing.T) {
	raw := `1. Activity Title: Paramount Theatre
Description: Restored in 1915. Still hosts films and comedy.
Duration: 1 hour
Highlight: Summer classic film series`

	got := planner.Parse(raw, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Restored in 1915. Still hosts films and comedy.", got[0].Description)
	assert.Equal(t, "Summer classic film series", got[0].Highlight)
}

func TestParse_ActivitiesJoinedOnOneLine(t *testing.T) {
	raw := "1. Activity Title: Zilker Park\nDescription: Big lawn. 2. Activity Title: Barton Springs\nDescription: Cold pool."

	got := planner.Parse(raw, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "Zilker Park", got[0].Name)
	assert.Equal(t, "Big lawn.", got[0].Description)
	assert.Equal(t, "Barton Springs", got[1].Name)
	assert.Equal(t, "Cold pool.", got[1].Description)
}

func TestParse_NumberedTextWithoutTitleDoesNotSplit(t *testing.T) {
	raw := "1. Activity Title: Mount Bonnell\nDescription: Climb 102 steps. 2. Bring water.\nHighlight: Views"

	got := planner.Parse(raw, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "Climb 102 steps. 2. Bring water.", got[0].Description)
}

func TestSplitBlocks(t *testing.T) {
	blocks := planner.SplitBlocks("\n1. a\n2. b\n\n3.   \n")

	assert.Equal(t, []string{" a\n", " b\n\n"}, blocks)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name  string
		block string
		want  string
		ok    bool
	}{
		{"plain", "Activity Title: Lady Bird Lake", "Lady Bird Lake", true},
		{"lower case", "activity title:   Lady Bird Lake  ", "Lady Bird Lake", true},
		{"bold", "**Activity Title:** Lady Bird Lake", "Lady Bird Lake", true},
		{"blank", "Activity Title:   \nDescription: x", "", false},
		{"missing", "Description: x", "", false},
		{"not at line start", "My Activity Title: nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := planner.ExtractTitle(tt.block)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDuration(t *testing.T) {
	tests := []struct {
		block string
		want  string
	}{
		{"Duration: 1 hour", "1 hour"},
		{"duration: 2 hours", "2 hour"},
		{"Duration:3hour", "3 hour"},
		{"Duration: 0 hours", "0 hour"},
		{"Duration: about an hour", "1 hour"},
		{"", "1 hour"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, planner.ExtractDuration(tt.block), "block %q", tt.block)
	}
}

func TestExtractDescriptionAndHighlight(t *testing.T) {
	block := " Activity Title: X\nDescription: Two sentences. Here.\nHighlight: Sunset views\n"

	assert.Equal(t, "Two sentences. Here.", planner.ExtractDescription(block))
	assert.Equal(t, "Sunset views", planner.ExtractHighlight(block))
	assert.Empty(t, planner.ExtractHighlight("Activity Title: X"))
}
