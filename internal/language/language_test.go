package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "bonjour", Normalize("  Bonjour !!"))
	assert.Equal(t, "hello", Normalize("HELLO."))
	assert.Equal(t, "مرحبا", Normalize("مرحبا؟"))
	assert.Equal(t, "hi there", Normalize("Hi there?"))
	// trimming happens before punctuation is stripped
	assert.Equal(t, "hello ", Normalize("hello !"))
}

func TestDetect_ArabicWinsOnBothProfiles(t *testing.T) {
	inputs := []string{
		"مرحبا",
		"hello مرحبا",
		"bonjour، كيف حالك",
		"What are your skills? ما هي مهاراتك",
	}
	for _, in := range inputs {
		assert.Equal(t, Arabic, Detect(in, Client), in)
		assert.Equal(t, Arabic, Detect(in, Server), in)
	}
}

func TestDetect_KeywordOrder(t *testing.T) {
	assert.Equal(t, English, Detect("Hello!", Client))
	assert.Equal(t, English, Detect("good morning", Client))
	assert.Equal(t, French, Detect("Bonjour", Client))
	assert.Equal(t, French, Detect("slt", Client))

	// English keywords are checked first
	assert.Equal(t, English, Detect("hey salut", Client))
}

func TestDetect_ServerKeywords(t *testing.T) {
	assert.Equal(t, English, Detect("What are your skills?", Server))
	assert.Equal(t, English, Detect("tell me more", Server))
	assert.Equal(t, French, Detect("Parle-moi de tes compétences", Server))
	assert.Equal(t, French, Detect("Quand as-tu commencé ?", Server))

	// the client profile does not know question words
	assert.Equal(t, French, Detect("tell me more", Client))
}

func TestDetect_DefaultsDiverge(t *testing.T) {
	msg := "Merci"
	assert.Equal(t, French, Detect(msg, Client))
	assert.Equal(t, English, Detect(msg, Server))
}

func TestDetect_EmptyDefault(t *testing.T) {
	assert.Equal(t, English, Detect("zzz", Profile{}))
}

func TestParse(t *testing.T) {
	lang, err := Parse(" Arabic ")
	require.NoError(t, err)
	assert.Equal(t, Arabic, lang)

	_, err = Parse("german")
	assert.Error(t, err)
}
