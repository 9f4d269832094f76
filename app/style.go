package app

import "net/http"

// Styles is the shared stylesheet served at /places.css
const Styles = `
body { font-family: -apple-system, sans-serif; margin: 0; color: #222; }
a { color: #067df7; text-decoration: none; }
#head { padding: 15px 20px; border-bottom: 1px solid #eee; display: flex; }
#brand a { font-weight: bold; color: #222; }
#nav { margin-left: auto; }
#nav a { margin-left: 15px; }
#container { max-width: 720px; margin: 0 auto; padding: 20px; }
.moods { display: flex; flex-wrap: wrap; gap: 10px; }
.mood { display: block; padding: 15px; border: 1px solid #eee; border-radius: 8px; color: #222; }
.mood span { display: block; font-size: small; color: #666; }
.results .place { padding: 10px 0; border-bottom: 1px solid #eee; }
.results .place h3 { margin: 0 0 5px 0; }
.results .place p { margin: 0; color: #666; }
`

// StyleHandler serves the stylesheet
func StyleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write([]byte(Styles))
}
