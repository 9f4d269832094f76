package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"moodplaces/api"
	"moodplaces/app"
	"moodplaces/auth"
	"moodplaces/explain"
	"moodplaces/favorites"
	"moodplaces/location"
	"moodplaces/mood"
	"moodplaces/notify"
	"moodplaces/place"
	"moodplaces/recent"
)

var EnvFlag = flag.String("env", "dev", "Set the environment")
var ServeFlag = flag.Bool("serve", false, "Run the server")
var AddressFlag = flag.String("address", ":8080", "Address for server")

func main() {
	flag.Parse()

	if !*ServeFlag {
		fmt.Println("--serve not set")
		return
	}

	// render the api markdown
	md := api.Markdown()
	apiDoc := app.Render([]byte(md))
	apiHTML := app.RenderHTML("API", "API documentation", string(apiDoc))

	// remote collaborators come from the environment; without them every
	// search and detail fetch degrades to the local index and mock data
	searchURL := os.Getenv("PLACES_SEARCH_URL")
	detailsURL := os.Getenv("PLACES_DETAILS_URL")
	explainURL := os.Getenv("PLACES_EXPLAIN_URL")

	// local index backing the middle fallback tier
	index, err := place.OpenIndex()
	if err != nil {
		app.Log("main", "Local index unavailable: %v", err)
	}

	pipeline := place.NewPipeline(&place.HTTPSearchService{URL: searchURL}, index, nil)

	// detail refreshes are pushed to watching clients
	hub := notify.NewHub()

	cache := place.NewCache()
	orchestrator := place.NewOrchestrator(cache, place.NewHTTPDetailService(detailsURL, nil), hub, nil)

	// favorites sync against a local sqlite store keyed by session identity
	var remote favorites.Remote
	if store, err := favorites.OpenRemote(); err != nil {
		app.Log("main", "Favorites store unavailable: %v", err)
	} else {
		remote = store
	}
	favs := favorites.NewSet(remote)

	history := recent.NewHistory()
	loc := location.NewStore()

	var explainService explain.Service = explain.LocalService{}
	if explainURL != "" {
		explainService = &explain.HTTPService{URL: explainURL}
	}
	explainer := &explain.Handlers{Client: explain.NewClient(explainService)}

	places := &place.Handlers{
		Pipeline:     pipeline,
		Orchestrator: orchestrator,
		IsFavorite:   favs.Has,
		OnView:       history.Add,
	}

	favHandlers := &favorites.Handlers{Set: favs}

	// serve place search and details
	http.HandleFunc("/places/", places.Handler)
	http.HandleFunc("/places", places.Handler)

	// serve explanations
	http.HandleFunc("/places/explain", explainer.Handler)

	// serve moods
	http.HandleFunc("/moods", mood.Handler)

	// serve favorites
	http.HandleFunc("/favorites", favHandlers.Handler)
	http.HandleFunc("/favorites/", favHandlers.Handler)

	// serve recently viewed
	http.HandleFunc("/recent", history.Handler)

	// serve the saved location
	http.HandleFunc("/location", loc.Handler)

	// websocket stream of background detail refreshes
	http.HandleFunc("/updates", hub.Handler)

	// serve the stylesheet
	http.HandleFunc("/places.css", app.StyleHandler)

	http.HandleFunc("/syslog", app.SysLogHandler)

	// serve the api doc
	http.HandleFunc("/api", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(apiHTML))
	})

	// serve the home screen
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		places.Handler(w, r)
	})

	fmt.Println("Starting server on", *AddressFlag)

	if err := http.ListenAndServe(*AddressFlag, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if *EnvFlag == "dev" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		if v := len(r.URL.Path); v > 1 && strings.HasSuffix(r.URL.Path, "/") {
			r.URL.Path = r.URL.Path[:v-1]
		}

		// every visitor gets an anonymous session; favorites sync and the
		// explanation rate limit key off it
		if r.URL.Path != "/updates" && !strings.HasSuffix(r.URL.Path, ".css") {
			if sess := auth.EnsureSession(w, r); sess != nil {
				if err := favs.Reconcile(sess.ID); err != nil {
					app.Log("main", "Favorites reconcile failed: %v", err)
				}
			}
		}

		http.DefaultServeMux.ServeHTTP(w, r)
	})); err != nil {
		fmt.Printf("Server error: %v\n", err)
		return
	}
}
