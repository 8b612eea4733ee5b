// Package language detects which of the supported languages a chat message
// is written in.
//
// Detection is a keyword heuristic parameterised by a Profile. The widget
// and the backend use different profiles on purpose: the widget only needs
// to recognise greetings and defaults to French, the backend also matches
// question words and domain nouns and defaults to English.
package language

import (
	"fmt"
	"strings"
)

// Language is one of the languages the assistant answers in
type Language string

// Supported languages
const (
	French  Language = "french"
	English Language = "english"
	Arabic  Language = "arabic"
)

// String returns the language name
func (l Language) String() string {
	return string(l)
}

// Parse converts a language name into a Language
func Parse(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case French:
		return French, nil
	case English:
		return English, nil
	case Arabic:
		return Arabic, nil
	default:
		return "", fmt.Errorf("unsupported language: %q", s)
	}
}

// Profile is a keyword set with the language returned when nothing matches
type Profile struct {
	Name    string
	English []string
	French  []string
	Default Language
}

// Client is the profile used by the chat widget
var Client = Profile{
	Name:    "client",
	English: []string{"hello", "hi", "hey", "good morning", "good evening"},
	French:  []string{"bonjour", "salut", "bonsoir", "bjr", "slt", "coucou", "cc", "bsr"},
	Default: French,
}

// Server is the profile used by the chat backend
var Server = Profile{
	Name: "server",
	English: []string{
		"hello", "hi", "hey", "good morning", "good evening",
		"what", "who", "where", "when", "why", "how",
		"skills", "project", "experience", "education", "work", "about", "tell me",
	},
	French: []string{
		"bonjour", "salut", "bonsoir", "bjr", "slt", "coucou", "cc", "bsr",
		"comment", "quoi", "qui", "où", "quand", "pourquoi",
		"compétences", "projet", "expérience", "formation", "travail", "parle",
	},
	Default: English,
}

// punctuation is removed by Normalize
const punctuation = "!.?،؟"

// Normalize lower-cases and trims text and strips the punctuation set.
// Trimming happens before punctuation removal.
func Normalize(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
}

// ContainsArabic reports whether text has a rune in the Arabic block
func ContainsArabic(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}

// Detect returns the language of text under the given profile.
// Arabic script wins over any keyword; English keywords are checked before
// French ones; keywords match as substrings of the normalized text.
func Detect(text string, p Profile) Language {
	if ContainsArabic(text) {
		return Arabic
	}

	normalized := Normalize(text)
	if containsAny(normalized, p.English) {
		return English
	}
	if containsAny(normalized, p.French) {
		return French
	}

	if p.Default == "" {
		return English
	}
	return p.Default
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
