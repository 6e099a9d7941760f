package api

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"traces/pkg/logging"
)

// Matches key=value and key="quoted value".
var logRegex = regexp.MustCompile(`([a-zA-Z0-9_\-.]+)=(?:"([^"]*)"|([^ ]+))`)

// maxParamLen drops attributes too long to read at a glance.
const maxParamLen = 20

// handleLatestLog returns the last captured server log line in short form.
func handleLatestLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"log": formatLogLine(logging.GlobalLogCapture.GetLastLine()),
	})
}

type logEntry struct {
	clock  string
	msg    string
	params []string
}

func parseLogLine(raw string) logEntry {
	var e logEntry
	for _, m := range logRegex.FindAllStringSubmatch(raw, -1) {
		key, val := m[1], m[2]
		if val == "" {
			val = m[3]
		}
		val = strings.TrimSpace(val)

		switch {
		case key == "time":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				e.clock = t.Format("15:04:05")
			}
		case key == "level":
		case key == "msg":
			e.msg = val
		case len(val) > maxParamLen:
		default:
			e.params = append(e.params, key+"="+val)
		}
	}
	sort.Strings(e.params)
	return e
}

// formatLogLine renders a slog text line as "HH:MM:SS msg (k=v, ...)".
// Lines without a msg attribute are returned unchanged.
func formatLogLine(raw string) string {
	e := parseLogLine(raw)
	if e.msg == "" {
		return raw
	}

	out := e.msg
	if e.clock != "" {
		out = e.clock + " " + e.msg
	}
	if len(e.params) > 0 {
		return fmt.Sprintf("%s (%s)", out, strings.Join(e.params, ", "))
	}
	return out
}
