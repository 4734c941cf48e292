package planner

import "strings"

type Category string

const (
	CategoryRestaurant    Category = "restaurant"
	CategoryMuseum        Category = "museum"
	CategoryOutdoor       Category = "outdoor"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
	CategorySports        Category = "sports"
	CategoryAttraction    Category = "attraction"
	CategoryGeneral       Category = "general"
)

const (
	primaryWeight   = 2
	secondaryWeight = 1
)

type categoryKeywords struct {
	category  Category
	primary   []string
	secondary []string
}

// Declaration order is the tie-break order.
var categoryTable = []categoryKeywords{
	{
		category:  CategoryRestaurant,
		primary:   []string{"restaurant", "cafe", "bistro", "eatery", "dining"},
		secondary: []string{"food", "bar", "grill", "tavern", "pub", "pizzeria", "diner"},
	},
	{
		category:  CategoryMuseum,
		primary:   []string{"museum", "gallery", "exhibition"},
		secondary: []string{"art", "cultural", "historical", "heritage", "exhibit"},
	},
	{
		category:  CategoryOutdoor,
		primary:   []string{"park", "garden", "trail", "beach"},
		secondary: []string{"nature", "botanical", "outdoor", "walking", "hiking"},
	},
	{
		category:  CategoryShopping,
		primary:   []string{"mall", "shop", "store", "market"},
		secondary: []string{"boutique", "retail", "shopping center", "plaza"},
	},
	{
		category:  CategoryEntertainment,
		primary:   []string{"theater", "cinema", "concert", "venue"},
		secondary: []string{"show", "movie", "performance", "arcade", "bowling", "entertainment"},
	},
	{
		category:  CategorySports,
		primary:   []string{"stadium", "arena", "gym", "court"},
		secondary: []string{"sport", "fitness", "athletic", "recreation", "game"},
	},
	{
		category:  CategoryAttraction,
		primary:   []string{"monument", "landmark", "tourist", "attraction"},
		secondary: []string{"point of interest", "sightseeing", "historic site"},
	},
}

// Classify scores the activity's name and description against each
// category's keywords and returns the best match, or CategoryGeneral when
// nothing matches. Keywords match as substrings, so "bar" also hits "barbecue".
func Classify(a Activity) Category {
	text := searchText(a)

	best, bestScore := CategoryGeneral, 0
	for _, ck := range categoryTable {
		score := keywordScore(text, ck)
		if score > bestScore {
			best, bestScore = ck.category, score
		}
	}
	return best
}

func searchText(a Activity) string {
	return strings.ToLower(a.Name) + " " + strings.ToLower(a.Description)
}

func keywordScore(text string, ck categoryKeywords) int {
	score := 0
	for _, kw := range ck.primary {
		if strings.Contains(text, kw) {
			score += primaryWeight
		}
	}
	for _, kw := range ck.secondary {
		if strings.Contains(text, kw) {
			score += secondaryWeight
		}
	}
	return score
}

// Score returns the keyword score of a for category c; CategoryGeneral and
// unknown categories score zero.
func Score(a Activity, c Category) int {
	text := searchText(a)
	for _, ck := range categoryTable {
		if ck.category == c {
			return keywordScore(text, ck)
		}
	}
	return 0
}
