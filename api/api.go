package api

import (
	"fmt"
)

type Endpoint struct {
	Name        string
	Path        string
	Method      string
	Params      []*Param
	Response    []*Value
	Description string
}

type Param struct {
	Name        string
	Value       string
	Description string
}

type Value struct {
	Type   string
	Params []*Param
}

var Endpoints = []*Endpoint{{
	Name:        "Search Places",
	Path:        "/places/search",
	Method:      "POST",
	Description: "Search for places near a location, filtered by mood",
	Params: []*Param{
		{
			Name:        "latitude",
			Value:       "number",
			Description: "Latitude of the search centre (-90 to 90)",
		},
		{
			Name:        "longitude",
			Value:       "number",
			Description: "Longitude of the search centre (-180 to 180)",
		},
		{
			Name:        "mood",
			Value:       "string",
			Description: "One of work, date, quick_bite, budget, chill, fun (optional)",
		},
		{
			Name:        "radius",
			Value:       "number",
			Description: "Search radius in metres, clamped to 100-50000. Default: 5000",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "places",
					Value:       "array",
					Description: "Array of place objects with id, name, category, latitude, longitude, distance, rating, price_level, cuisine_type, is_open, opening_hours, address",
				},
				{
					Name:        "count",
					Value:       "number",
					Description: "Number of places returned",
				},
			},
		},
	},
}, {
	Name:        "Place Details",
	Path:        "/places/details?id={id}",
	Method:      "GET",
	Description: "Get rich details for a place. Cached results may be returned immediately while a background refresh runs; refreshed details are pushed over /updates.",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "details",
					Value:       "object",
					Description: "Detail object with description, phone, website, photos, tips, weekly_hours, popular_times",
				},
				{
					Name:        "stale",
					Value:       "boolean",
					Description: "True when the data is from cache and a refresh is in flight",
				},
			},
		},
	},
}, {
	Name:        "Explain Place",
	Path:        "/places/explain",
	Method:      "POST",
	Description: "Generate a short explanation of why a place suits the current mood. Rate limited to 20 requests per minute per session.",
	Params: []*Param{
		{
			Name:        "place",
			Value:       "object",
			Description: "Place summary object from search results",
		},
		{
			Name:        "mood",
			Value:       "string",
			Description: "Current mood (optional)",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "explanation",
					Value:       "string",
					Description: "One or two sentence rationale",
				},
			},
		},
	},
}, {
	Name:        "List Moods",
	Path:        "/moods",
	Method:      "GET",
	Description: "List the available moods and their category mappings",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "moods",
					Value:       "array",
					Description: "Array of mood objects with id, label, emoji, description, categories",
				},
			},
		},
	},
}, {
	Name:        "List Favorites",
	Path:        "/favorites",
	Method:      "GET",
	Description: "List the ids of favorited places",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "favorites",
					Value:       "array",
					Description: "Array of favorited place ids",
				},
			},
		},
	},
}, {
	Name:        "Toggle Favorite",
	Path:        "/favorites",
	Method:      "POST",
	Description: "Toggle a place in or out of favorites. The local state flips immediately; remote sync runs in the background.",
	Params: []*Param{
		{
			Name:        "id",
			Value:       "string",
			Description: "Place id",
		},
		{
			Name:        "name",
			Value:       "string",
			Description: "Place name, stored alongside the favorite",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "favorited",
					Value:       "boolean",
					Description: "Whether the place is now a favorite",
				},
			},
		},
	},
}, {
	Name:        "Recently Viewed",
	Path:        "/recent",
	Method:      "GET",
	Description: "The last five places the user opened, most recent first",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "recent",
					Value:       "array",
					Description: "Array of place summary objects",
				},
			},
		},
	},
}, {
	Name:        "Saved Location",
	Path:        "/location",
	Method:      "GET",
	Description: "The last saved coarse position, valid for 24 hours",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "latitude",
					Value:       "number",
					Description: "Saved latitude",
				},
				{
					Name:        "longitude",
					Value:       "number",
					Description: "Saved longitude",
				},
				{
					Name:        "timestamp",
					Value:       "string",
					Description: "When the position was saved",
				},
			},
		},
	},
}, {
	Name:        "Save Location",
	Path:        "/location",
	Method:      "POST",
	Description: "Save the user's coarse position for startup searches",
	Params: []*Param{
		{
			Name:        "latitude",
			Value:       "number",
			Description: "Latitude (-90 to 90)",
		},
		{
			Name:        "longitude",
			Value:       "number",
			Description: "Longitude (-180 to 180)",
		},
	},
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "success",
					Value:       "boolean",
					Description: "Whether the position was saved",
				},
			},
		},
	},
}, {
	Name:        "Detail Updates",
	Path:        "/updates?place={id}",
	Method:      "GET",
	Description: "WebSocket stream of background detail refreshes for the place being viewed",
	Response: []*Value{
		{
			Type: "JSON",
			Params: []*Param{
				{
					Name:        "type",
					Value:       "string",
					Description: "Always 'detail'",
				},
				{
					Name:        "place_id",
					Value:       "string",
					Description: "The refreshed place id",
				},
				{
					Name:        "detail",
					Value:       "object",
					Description: "The fresh detail object",
				},
			},
		},
	},
}}

// Register an endpoint
func Register(ep *Endpoint) {
	Endpoints = append(Endpoints, ep)
}

// Markdown API document
func Markdown() string {
	var data string

	data += "# API Documentation\n\n"
	data += "Sessions are issued automatically via the `session` cookie on first\n"
	data += "request. Favorites sync and explanation rate limits are keyed by it.\n\n"
	data += "---\n\n"
	data += "## Endpoints\n\n"

	for _, endpoint := range Endpoints {
		data += "## " + endpoint.Name
		data += fmt.Sprintln()
		data += fmt.Sprintln()
		data += fmt.Sprintln(endpoint.Description)
		data += fmt.Sprintln()
		data += fmt.Sprintf("```%s %s```", endpoint.Method, endpoint.Path)
		data += fmt.Sprintln()

		data += fmt.Sprintln("#### Headers")
		data += fmt.Sprintln()
		data += fmt.Sprintln("Content-Type: application/json")
		data += fmt.Sprintln()
		data += fmt.Sprintln()

		if endpoint.Params != nil {
			data += fmt.Sprintln("#### Request")
			data += fmt.Sprintln()
			data += fmt.Sprintln("Format: JSON")
			data += fmt.Sprintln()
			data += "| Field | Type | Description |"
			data += fmt.Sprintln()
			data += "| ----- | ---- | ----------- |"
			data += fmt.Sprintln()

			for _, param := range endpoint.Params {
				data += fmt.Sprintf("|	%s	|	%s	|	%s	|", param.Name, param.Value, param.Description)
				data += fmt.Sprintln()
			}
			data += fmt.Sprintln()
			data += fmt.Sprintln("\\")
			data += fmt.Sprintln()
		}

		if endpoint.Response != nil {
			data += fmt.Sprintln("#### Response")
			data += fmt.Sprintln()
			for _, resp := range endpoint.Response {
				data += fmt.Sprintln()
				data += fmt.Sprintf("Format: %s", resp.Type)
				data += fmt.Sprintln()
				data += "| Field | Type | Description |"
				data += fmt.Sprintln()
				data += "| ----- | ---- | ----------- |"
				data += fmt.Sprintln()
				for _, param := range resp.Params {
					data += fmt.Sprintf("|	%s	|	%s	|	%s	|", param.Name, param.Value, param.Description)
					data += fmt.Sprintln()
				}
			}

			data += fmt.Sprintln()
			data += fmt.Sprintln("\\")
			data += fmt.Sprintln()
		}

		data += fmt.Sprintln()
		data += fmt.Sprintln("\\")
		data += fmt.Sprintln("\\")
		data += fmt.Sprintln()
	}

	return data
}
