package planner

import (
	"fmt"
	"regexp"
	"strings"
)

// Numbered items start a line: "1. Activity Title: ...". Markdown decoration
// in front of the number is tolerated.
var blockSplitter = regexp.MustCompile(`(?m)^[ \t*#>]*\d+\.`)

// A numbered title glued onto the previous line, as in
// "Highlight: views 2. Activity Title: ...", is moved onto its own line
// before splitting.
var inlineItem = regexp.MustCompile(`(?i)([^\s])[ \t]+(\d+\.[ \t*]*activity title[ \t*]*:)`)

var (
	titlePattern       = labelPattern(`activity title`)
	descriptionPattern = labelPattern(`description`)
	highlightPattern   = labelPattern(`highlight`)
	durationPattern    = regexp.MustCompile(`(?im)^[ \t*#>-]*duration[ \t*]*:[ \t*]*(\d+)\s*hour`)
)

// labelPattern matches "Label: value" at the start of a line, case-insensitive,
// allowing bullet and bold markers around the label and value.
func labelPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t*#>-]*` + label + `[ \t*]*:[ \t*]*([^\r\n]*?)[ \t*\r]*$`)
}

// ParseResult is the detailed outcome of parsing one model response.
type ParseResult struct {
	Activities []Activity
	// Duplicates lists titles dropped because they were already used.
	Duplicates []string
	// Untitled counts numbered blocks that had no title.
	Untitled int
	// Failed is set when Activities holds only the parse-failure placeholder.
	Failed bool
	Err    error
}

// Parse turns raw model text into activities. It never returns an empty slice
// and never panics.
func Parse(raw string, used NameSet) []Activity {
	return ParseDetailed(raw, used).Activities
}

// ParseDetailed is Parse with bookkeeping for logging.
func ParseDetailed(raw string, used NameSet) (res ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ParseResult{
				Activities: []Activity{ParseFailedActivity()},
				Failed:     true,
				Err:        fmt.Errorf("parse activities: %v", r),
			}
		}
	}()

	seen := make(map[string]struct{})
	for _, block := range SplitBlocks(raw) {
		a, ok := parseBlock(block)
		if !ok {
			res.Untitled++
			continue
		}
		if _, dup := seen[a.Name]; dup || (used != nil && used.Contains(a.Name)) {
			res.Duplicates = append(res.Duplicates, a.Name)
			continue
		}
		seen[a.Name] = struct{}{}
		res.Activities = append(res.Activities, a)
	}

	if len(res.Activities) == 0 {
		res.Activities = []Activity{ParseFailedActivity()}
		res.Failed = true
	}
	return res
}

// SplitBlocks cuts raw text at each line-leading "<digits>." and drops
// blank segments, including the one before the first number.
func SplitBlocks(raw string) []string {
	raw = inlineItem.ReplaceAllString(raw, "$1\n$2")
	parts := blockSplitter.Split(raw, -1)
	blocks := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			blocks = append(blocks, p)
		}
	}
	return blocks
}

func parseBlock(block string) (Activity, bool) {
	name, ok := ExtractTitle(block)
	if !ok {
		return Activity{}, false
	}
	return Activity{
		Name:          name,
		Description:   ExtractDescription(block),
		DurationLabel: ExtractDuration(block),
		Highlight:     ExtractHighlight(block),
	}, true
}

// ExtractTitle returns the "Activity Title:" value. A blank title counts as
// missing.
func ExtractTitle(block string) (string, bool) {
	v := firstMatch(titlePattern, block)
	return v, v != ""
}

func ExtractDescription(block string) string {
	return firstMatch(descriptionPattern, block)
}

func ExtractHighlight(block string) string {
	return firstMatch(highlightPattern, block)
}

// ExtractDuration returns the digits of the "Duration:" line followed by
// " hour", as written by the model, or "1 hour" when there is no number.
func ExtractDuration(block string) string {
	m := durationPattern.FindStringSubmatch(block)
	if m == nil {
		return defaultDurationLabel
	}
	return m[1] + " hour"
}

func firstMatch(re *regexp.Regexp, block string) string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
