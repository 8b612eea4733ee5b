// Package prompt assembles the grounding context and the final prompt sent
// to the generation API.
package prompt

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/language"
)

// Builder renders prompts for one portfolio owner
type Builder struct {
	profile domain.Profile
}

// NewBuilder creates a prompt builder for profile
func NewBuilder(profile domain.Profile) *Builder {
	return &Builder{profile: profile}
}

// ContactBlock returns the contact block appended to every answer
func (b *Builder) ContactBlock() string {
	return fmt.Sprintf(contactBlockFormat, b.profile.Email, b.profile.LinkedIn, b.profile.GitHub)
}

// Instructions returns the instruction block for lang
func (b *Builder) Instructions(lang language.Language) string {
	t := templateFor(lang)
	name, first, _ := b.profile.Localized(lang == language.Arabic)
	return fmt.Sprintf(t.instructions, name, first, b.ContactBlock())
}

// Context renders the preamble, every section as a heading and body, then
// the instruction block.
func (b *Builder) Context(lang language.Language, sections []domain.KnowledgeSection) string {
	t := templateFor(lang)

	name, _, local := b.profile.Localized(lang == language.Arabic)
	preamble := t.preamble
	if local && t.localPreamble != "" {
		preamble = t.localPreamble
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(preamble, name))
	for _, s := range sections {
		sb.WriteString("## ")
		sb.WriteString(Title(s.Section))
		sb.WriteString("\n")
		sb.WriteString(s.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString(b.Instructions(lang))
	return sb.String()
}

// Prompt frames the user question after the context
func (b *Builder) Prompt(context, question string, lang language.Language) string {
	t := templateFor(lang)

	var sb strings.Builder
	sb.WriteString(context)
	sb.WriteString(fmt.Sprintf(t.question, question))
	sb.WriteString(t.answerCue)
	return sb.String()
}

// Title upper-cases the first letter of a section name
func Title(section string) string {
	r, size := utf8.DecodeRuneInString(section)
	if r == utf8.RuneError {
		return section
	}
	return string(unicode.ToUpper(r)) + section[size:]
}

// templateFor falls back to English for unknown languages, matching the
// server detection default.
func templateFor(lang language.Language) template {
	if t, ok := templates[lang]; ok {
		return t
	}
	return templates[language.English]
}
