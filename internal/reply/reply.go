// Package reply prepares assistant replies for display next to the contact
// actions of the widget.
package reply

import (
	"regexp"
	"strings"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
)

// ContactMarker flags a reply that carries the contact block
const ContactMarker = "📧"

// greetingPhrases suppress the contact flag; matched case-insensitively
var greetingPhrases = []string{"hello", "bonjour", "مرحبا"}

// HasContactInfo reports whether text references contact information.
// Greeting replies never do, even when they carry the marker.
func HasContactInfo(text string) bool {
	if !strings.Contains(text, ContactMarker) {
		return false
	}
	lower := strings.ToLower(text)
	for _, g := range greetingPhrases {
		if strings.Contains(lower, g) {
			return false
		}
	}
	return true
}

var (
	leadInPattern    = regexp.MustCompile(`(?i)📧\s*(Plus d'infos?|Contact disponible|Pour plus d'informations?|Contact|Info):?\s*`)
	belowPattern     = regexp.MustCompile(`(?i)ci-dessous\.?`)
	urlPattern       = regexp.MustCompile(`(?i)https?://[^\s]+`)
	pipePattern      = regexp.MustCompile(`\|\s*`)
	bulletPattern    = regexp.MustCompile(`•\s*`)
	whitespaceFolder = regexp.MustCompile(`\s+`)
)

// Cleaner strips inline contact details so they only surface as actions
type Cleaner struct {
	literals []*regexp.Regexp
}

// NewCleaner creates a cleaner for the given profile's contact strings
func NewCleaner(profile domain.Profile) *Cleaner {
	c := &Cleaner{}
	for _, s := range []string{profile.Email, profile.LinkedIn, profile.GitHub} {
		if s == "" {
			continue
		}
		c.literals = append(c.literals, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(s)))
	}
	return c
}

// Clean removes contact lead-ins, contact literals, URLs and separators
// and folds whitespace into single spaces.
func (c *Cleaner) Clean(text string) string {
	out := leadInPattern.ReplaceAllString(text, "")
	out = belowPattern.ReplaceAllString(out, "")
	// whole URLs go first so a literal inside one leaves no bare scheme
	out = urlPattern.ReplaceAllString(out, "")
	for _, re := range c.literals {
		out = re.ReplaceAllString(out, "")
	}
	out = pipePattern.ReplaceAllString(out, "")
	out = bulletPattern.ReplaceAllString(out, "")
	out = strings.TrimSpace(out)
	return whitespaceFolder.ReplaceAllString(out, " ")
}

// Action is a contact affordance rendered next to a reply
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ContactActions returns the Email, LinkedIn and GitHub actions of a profile
func ContactActions(profile domain.Profile) []Action {
	var actions []Action
	if profile.Email != "" {
		actions = append(actions, Action{Label: "Email", URL: "mailto:" + profile.Email})
	}
	if profile.LinkedIn != "" {
		actions = append(actions, Action{Label: "LinkedIn", URL: withScheme(profile.LinkedIn)})
	}
	if profile.GitHub != "" {
		actions = append(actions, Action{Label: "GitHub", URL: withScheme(profile.GitHub)})
	}
	return actions
}

func withScheme(handle string) string {
	if strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://") {
		return handle
	}
	return "https://" + handle
}
