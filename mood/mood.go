// Package mood maps user moods to venue category filters.
package mood

// Mood is a closed intent category
type Mood string

const (
	Work      Mood = "work"
	Date      Mood = "date"
	QuickBite Mood = "quick_bite"
	Budget    Mood = "budget"
	Chill     Mood = "chill"
	Fun       Mood = "fun"
)

// Config describes a mood and the venue categories it maps to
type Config struct {
	ID          Mood     `json:"id"`
	Label       string   `json:"label"`
	Emoji       string   `json:"emoji"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

var configs = []Config{
	{ID: Work, Label: "Work", Emoji: "💼", Description: "Focus & productivity", Categories: []string{"cafe", "coffee_shop"}},
	{ID: Date, Label: "Date", Emoji: "❤️", Description: "Romantic vibes", Categories: []string{"restaurant", "cafe", "bar"}},
	{ID: QuickBite, Label: "Quick Bite", Emoji: "🍔", Description: "Fast & tasty", Categories: []string{"fast_food", "cafe", "restaurant"}},
	{ID: Budget, Label: "Budget", Emoji: "💸", Description: "Easy on wallet", Categories: []string{"fast_food", "cafe", "restaurant"}},
	{ID: Chill, Label: "Chill", Emoji: "😌", Description: "Relax & unwind", Categories: []string{"cafe", "bar", "restaurant"}},
	{ID: Fun, Label: "Fun", Emoji: "🎉", Description: "Party time!", Categories: []string{"bar", "pub", "restaurant"}},
}

// Configs returns all mood definitions
func Configs() []Config {
	out := make([]Config, len(configs))
	copy(out, configs)
	return out
}

// Get returns the config for a mood, or false if unknown
func Get(id Mood) (Config, bool) {
	for _, c := range configs {
		if c.ID == id {
			return c, true
		}
	}
	return Config{}, false
}

// Categories returns the venue categories for a mood. Unknown moods return
// nil, which the search pipeline treats as the default food & drink set.
func Categories(id Mood) []string {
	c, ok := Get(id)
	if !ok {
		return nil
	}
	out := make([]string, len(c.Categories))
	copy(out, c.Categories)
	return out
}
