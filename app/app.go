package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

var Template = `
<html>
  <head>
    <title>%s | MoodPlaces</title>
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <meta name="description" content="%s">
    <meta name="referrer" content="no-referrer"/>
    <link rel="stylesheet" href="/places.css">
  </head>
  <body>
    <div id="head">
      <div id="brand">
        <a href="/">MoodPlaces</a>
      </div>
      <div id="nav">
        <a href="/">Home</a>
        <a href="/favorites">Favorites</a>
        <a href="/recent">Recent</a>
        <a href="/api">API</a>
      </div>
    </div>
    <div id="container">
      <div id="content">%s</div>
    </div>
  </body>
</html>
`

// Response is a rendered page
type Response struct {
	Title       string
	Description string
	HTML        string
}

// Render a markdown document as html
func Render(md []byte) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(md)

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return markdown.Render(doc, renderer)
}

// RenderHTML renders the given html in a template
func RenderHTML(title, desc, html string) string {
	return fmt.Sprintf(Template, title, desc, html)
}

// Respond writes a templated HTML page
func Respond(w http.ResponseWriter, r *http.Request, rsp Response) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(RenderHTML(rsp.Title, rsp.Description, rsp.HTML)))
}

// WantsJSON returns true if the client asked for a JSON response
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// SendsJSON returns true if the client submitted a JSON body
func SendsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// RespondJSON writes a JSON response
func RespondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// RespondError writes a JSON error with the given status code
func RespondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}

// BadRequest writes a 400 response
func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	if WantsJSON(r) {
		RespondError(w, http.StatusBadRequest, message)
		return
	}
	http.Error(w, message, http.StatusBadRequest)
}

// ServerError writes a 500 response
func ServerError(w http.ResponseWriter, r *http.Request, message string) {
	if WantsJSON(r) {
		RespondError(w, http.StatusInternalServerError, message)
		return
	}
	http.Error(w, message, http.StatusInternalServerError)
}

// Unauthorized writes a 401 response
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) {
		RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// MethodNotAllowed writes a 405 response
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}
