package app

import (
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

const sysLogMaxEntries = 500

// SysLogEntry is a single system log line.
type SysLogEntry struct {
	Time    time.Time
	Package string
	Message string
}

var (
	sysLogMu      sync.Mutex
	sysLogEntries []*SysLogEntry
)

// Log records a package-tagged log message
func Log(pkg, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", pkg, msg)

	entry := &SysLogEntry{
		Time:    time.Now(),
		Package: pkg,
		Message: msg,
	}
	sysLogMu.Lock()
	sysLogEntries = append(sysLogEntries, entry)
	if len(sysLogEntries) > sysLogMaxEntries {
		sysLogEntries = sysLogEntries[len(sysLogEntries)-sysLogMaxEntries:]
	}
	sysLogMu.Unlock()
}

// GetSysLog returns a copy of the system log in reverse-chronological order.
func GetSysLog() []*SysLogEntry {
	sysLogMu.Lock()
	defer sysLogMu.Unlock()
	result := make([]*SysLogEntry, len(sysLogEntries))
	for i, e := range sysLogEntries {
		result[len(sysLogEntries)-1-i] = e
	}
	return result
}

// SysLogHandler shows the in-memory system log
func SysLogHandler(w http.ResponseWriter, r *http.Request) {
	entries := GetSysLog()

	if WantsJSON(r) {
		RespondJSON(w, map[string]interface{}{
			"entries": entries,
			"count":   len(entries),
		})
		return
	}

	var content strings.Builder
	content.WriteString(fmt.Sprintf(`<h3>System Log <span class="count">%d</span></h3>`, len(entries)))
	if len(entries) == 0 {
		content.WriteString(`<p>No log entries yet.</p>`)
	} else {
		content.WriteString(`<table><tr><th>Time</th><th>Package</th><th>Message</th></tr>`)
		for _, e := range entries {
			content.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
				e.Time.Format("Jan 2 15:04:05"),
				html.EscapeString(e.Package),
				html.EscapeString(e.Message)))
		}
		content.WriteString(`</table>`)
	}

	Respond(w, r, Response{
		Title:       "System Log",
		Description: "Recent server activity",
		HTML:        content.String(),
	})
}
