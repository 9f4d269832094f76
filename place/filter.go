package place

import (
	"sort"
	"strings"
)

// SortOption orders search results
type SortOption string

const (
	SortDistance SortOption = "distance"
	SortRating   SortOption = "rating"
)

// PriceFilter narrows results to a price tier
type PriceFilter string

const (
	PriceAll     PriceFilter = "all"
	PriceBudget  PriceFilter = "budget"
	PriceMid     PriceFilter = "mid"
	PricePremium PriceFilter = "premium"
)

// FilterOptions describes the client-side filter and sort state
type FilterOptions struct {
	Query         string
	OpenOnly      bool
	FavoritesOnly bool
	IsFavorite    func(id string) bool
	Price         PriceFilter
	Cuisine       CuisineType // empty means all
	SortBy        SortOption
}

// Filter applies the filter and sort state to a result set. It is a pure
// function of its inputs; the originals are never mutated. Filters compose
// with AND; the sort is stable.
func Filter(places []Summary, opts FilterOptions) []Summary {
	result := make([]Summary, 0, len(places))

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	for _, p := range places {
		if query != "" && !matchesQuery(&p, query) {
			continue
		}
		if opts.OpenOnly && !p.IsOpen {
			continue
		}
		if opts.FavoritesOnly && (opts.IsFavorite == nil || !opts.IsFavorite(p.ID)) {
			continue
		}
		if !matchesPrice(&p, opts.Price) {
			continue
		}
		if opts.Cuisine != "" && p.CuisineType != opts.Cuisine {
			continue
		}
		result = append(result, p)
	}

	switch opts.SortBy {
	case SortRating:
		// Missing ratings sort as 0
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Rating > result[j].Rating
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Distance < result[j].Distance
		})
	}

	return result
}

func matchesQuery(p *Summary, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Category), query) ||
		strings.Contains(strings.ToLower(p.Address), query)
}

func matchesPrice(p *Summary, filter PriceFilter) bool {
	level := p.PriceLevel
	if level == 0 {
		level = 2
	}
	switch filter {
	case PriceBudget:
		return level == 1
	case PriceMid:
		return level == 2
	case PricePremium:
		return level >= 3
	default:
		return true
	}
}
