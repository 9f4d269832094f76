package place

import "strings"

// Cuisine and price inference is a best-effort keyword classifier over the
// free-text name and category. First match wins; no confidence signal.

var cuisineKeywords = []struct {
	cuisine CuisineType
	words   []string
}{
	{CuisineChinese, []string{"chinese", "wok", "noodle"}},
	{CuisineSouthIndian, []string{"dosa", "idli", "saravana", "south"}},
	{CuisineNorthIndian, []string{"punjab", "dhaba", "tandoor", "mughal"}},
	{CuisineFastFood, []string{"burger", "pizza", "kfc", "mcdonald"}},
	{CuisineCafe, []string{"cafe", "coffee", "starbucks", "chai"}},
	{CuisineStreetFood, []string{"chaat", "pani puri", "golgappa"}},
}

// GuessCuisine infers a cuisine type from the place name and category
func GuessCuisine(category, name string) CuisineType {
	lowerName := strings.ToLower(name)
	for _, entry := range cuisineKeywords {
		for _, w := range entry.words {
			if strings.Contains(lowerName, w) {
				return entry.cuisine
			}
		}
	}

	lowerCategory := strings.ToLower(category)
	switch {
	case strings.Contains(lowerCategory, "fast_food"):
		return CuisineFastFood
	case strings.Contains(lowerCategory, "cafe"), strings.Contains(lowerCategory, "coffee"):
		return CuisineCafe
	case strings.Contains(lowerCategory, "restaurant"):
		return CuisineNorthIndian
	}

	return CuisineOther
}

var (
	premiumWords = []string{"starbucks", "mainland", "barbeque", "grill", "fine dining", "taj"}
	budgetWords  = []string{"chaat", "dhaba", "street", "chai"}
)

// GuessPrice infers a price level (1=budget, 2=mid, 3=premium) from the place
// name and category
func GuessPrice(category, name string) int {
	lowerName := strings.ToLower(name)
	for _, w := range premiumWords {
		if strings.Contains(lowerName, w) {
			return 3
		}
	}

	lowerCategory := strings.ToLower(category)
	for _, w := range budgetWords {
		if strings.Contains(lowerName, w) {
			return 1
		}
	}
	if strings.Contains(lowerCategory, "fast_food") {
		return 1
	}

	return 2
}
