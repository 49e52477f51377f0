// Package transcript extracts advisory scheduling hints from free-form
// transcription text. The extracted phrase is surfaced to the user next to
// the calendar; it is never parsed into a concrete date and never feeds the
// wizard's validated state.
package transcript

import "regexp"

const relativeDay = `(?:tomorrow|next\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)|today)`

// Patterns are tried in priority order; the first match wins.
var dateTimePatterns = []*regexp.Regexp{
	// "tomorrow at 3pm", "next friday 10:30am"
	regexp.MustCompile(`(?i)` + relativeDay + `\s+(?:at\s+)?(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)`),
	// "3pm tomorrow", "10:30 am next friday"
	regexp.MustCompile(`(?i)(\d{1,2}(?::\d{2})?\s*(?:am|pm))\s+` + relativeDay),
	// "appointment for tomorrow", "meeting next monday" — no explicit time
	regexp.MustCompile(`(?i)(?:appointment|meeting)\s+(?:for\s+)?` + relativeDay),
}

// ExtractDateTimePhrase returns the first date/time phrase matched in text,
// trying patterns in fixed priority order. The boolean is false when no
// pattern matches.
func ExtractDateTimePhrase(text string) (string, bool) {
	for _, pattern := range dateTimePatterns {
		if match := pattern.FindString(text); match != "" {
			return match, true
		}
	}
	return "", false
}
