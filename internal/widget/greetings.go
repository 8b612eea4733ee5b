// Package widget is the chat widget session: it answers greetings locally
// and forwards everything else to the chat backend.
package widget

import (
	"github.com/fatmaabchouk/portfolio-assistant/internal/language"
)

// greetingTokens are matched against the whole normalized input
var greetingTokens = map[string]struct{}{}

func init() {
	for _, g := range []string{
		"hello", "hi", "hey", "good morning", "good evening",
		"bonjour", "salut", "bonsoir", "bjr", "bnj", "slm", "salam",
		"bsr", "cc", "coucou", "slt",
		"مرحبا", "مرحباً", "السلام", "أهلا", "أهلاً", "سلام", "اهلا",
	} {
		greetingTokens[g] = struct{}{}
	}
}

// Messages shown by the widget
const (
	ApologyMessage   = "😅 Désolé, une erreur s'est produite. Veuillez réessayer."
	ErrorToastTitle  = "❌ Erreur"
	ErrorToastDetail = "Une erreur s'est produite. Veuillez réessayer."

	CopiedToastTitle  = "✅ Copié!"
	CopiedToastDetail = "Le message a été copié dans le presse-papiers."
	CopyFailedDetail  = "Impossible de copier le message."
)

var greetings = map[language.Language]string{
	language.French:  "👋 Bonjour! Je suis l'assistant virtuel de Fatma. Comment puis-je vous aider à en savoir plus sur son parcours 🎓, ses compétences 💻 ou ses projets 🚀?",
	language.English: "👋 Hello! I'm Fatma's virtual assistant. How can I help you learn more about her background 🎓, skills 💻, or projects 🚀?",
	language.Arabic:  "👋 مرحباً! أنا المساعد الافتراضي لفاطمة. كيف يمكنني مساعدتك لمعرفة المزيد عن مسيرتها 🎓 ومهاراتها 💻 ومشاريعها 🚀؟",
}

// WelcomeMessage opens every session
var WelcomeMessage = greetings[language.English]

// IsGreeting reports whether the whole input is a greeting token
func IsGreeting(text string) bool {
	_, ok := greetingTokens[language.Normalize(text)]
	return ok
}

// Greeting returns the canned greeting for lang, French when unknown
func Greeting(lang language.Language) string {
	if g, ok := greetings[lang]; ok {
		return g
	}
	return greetings[language.French]
}
