package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/language"
)

// DefaultScrollDelay is how long the session waits before running the
// update hook
const DefaultScrollDelay = 100 * time.Millisecond

var errNoClipboard = errors.New("no clipboard configured")

// Backend answers messages the widget does not handle itself
type Backend interface {
	Ask(ctx context.Context, message string) (*domain.ChatResponse, error)
}

// Notifier shows transient notices such as error toasts
type Notifier interface {
	Notify(title, description string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(title, description string)

// Notify calls f
func (f NotifierFunc) Notify(title, description string) { f(title, description) }

// Clipboard receives copied message text
type Clipboard interface {
	WriteText(text string) error
}

// ClipboardFunc adapts a function to Clipboard
type ClipboardFunc func(text string) error

// WriteText calls f
func (f ClipboardFunc) WriteText(text string) error { return f(text) }

// Option configures a Session
type Option func(*Session)

// WithNotifier sets the notifier used for error toasts
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithClipboard sets where Copy writes message text
func WithClipboard(c Clipboard) Option {
	return func(s *Session) { s.clipboard = c }
}

// WithUpdateHook registers fn to run after every transcript or loading change
func WithUpdateHook(fn func()) Option {
	return func(s *Session) { s.onUpdate = fn }
}

// WithScrollDelay overrides DefaultScrollDelay
func WithScrollDelay(d time.Duration) Option {
	return func(s *Session) { s.delay = d }
}

// WithLogger sets the session logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source for message timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is one in-memory widget transcript. It is safe for concurrent use.
type Session struct {
	backend   Backend
	notifier  Notifier
	clipboard Clipboard
	onUpdate  func()
	delay     time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	messages []domain.ChatMessage
	loading  bool
}

// NewSession creates a session opened by the welcome message
func NewSession(backend Backend, opts ...Option) *Session {
	s := &Session{
		backend: backend,
		delay:   DefaultScrollDelay,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("widget")
	s.messages = []domain.ChatMessage{{
		Role:      domain.RoleAssistant,
		Content:   WelcomeMessage,
		Timestamp: s.now(),
	}}
	return s
}

// Send submits input. It returns false without touching the transcript when
// the trimmed input is empty or another message is still in flight.
func (s *Session) Send(ctx context.Context, input string) bool {
	text := strings.TrimSpace(input)

	s.mu.Lock()
	if text == "" || s.loading {
		s.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, domain.ChatMessage{
		Role:      domain.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})

	if IsGreeting(text) {
		lang := language.Detect(text, language.Client)
		s.messages = append(s.messages, domain.ChatMessage{
			Role:      domain.RoleAssistant,
			Content:   Greeting(lang),
			Timestamp: s.now(),
		})
		s.mu.Unlock()
		s.logger.Debug("Answered greeting locally", zap.Stringer("language", lang))
		s.scheduleUpdate()
		return true
	}

	s.loading = true
	s.mu.Unlock()
	s.scheduleUpdate()

	resp, err := s.backend.Ask(ctx, text)

	s.mu.Lock()
	switch {
	case err != nil:
		s.logger.Warn("Chat backend failed", zap.Error(err))
		s.messages = append(s.messages, domain.ChatMessage{
			Role:      domain.RoleAssistant,
			Content:   ApologyMessage,
			Timestamp: s.now(),
		})
	case resp != nil && resp.Reply != "":
		s.messages = append(s.messages, domain.ChatMessage{
			Role:           domain.RoleAssistant,
			Content:        resp.Reply,
			Timestamp:      s.now(),
			HasContactInfo: resp.HasContactInfo,
		})
	}
	s.loading = false
	s.mu.Unlock()

	if err != nil {
		s.notify(ErrorToastTitle, ErrorToastDetail)
	}
	s.scheduleUpdate()
	return true
}

// React toggles the reaction on message index: choosing the current
// reaction again clears it.
func (s *Session) React(index int, liked bool) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.messages) {
		s.mu.Unlock()
		return false
	}
	msg := &s.messages[index]
	if msg.Liked != nil && *msg.Liked == liked {
		msg.Liked = nil
	} else {
		msg.Liked = &liked
	}
	s.mu.Unlock()

	s.scheduleUpdate()
	return true
}

// Copy writes the content of assistant message index to the clipboard and
// notifies the outcome. It returns false when index is not an assistant
// message.
func (s *Session) Copy(index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.messages) || s.messages[index].Role != domain.RoleAssistant {
		s.mu.Unlock()
		return false
	}
	content := s.messages[index].Content
	s.mu.Unlock()

	err := errNoClipboard
	if s.clipboard != nil {
		err = s.clipboard.WriteText(content)
	}
	if err != nil {
		s.logger.Warn("Copy failed", zap.Int("index", index), zap.Error(err))
		s.notify(ErrorToastTitle, CopyFailedDetail)
		return true
	}
	s.notify(CopiedToastTitle, CopiedToastDetail)
	return true
}

func (s *Session) notify(title, description string) {
	if s.notifier != nil {
		s.notifier.Notify(title, description)
	}
}

// Loading reports whether a message is in flight
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Messages returns a copy of the transcript in order
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	for i := range out {
		if out[i].Liked != nil {
			v := *out[i].Liked
			out[i].Liked = &v
		}
	}
	return out
}

func (s *Session) scheduleUpdate() {
	if s.onUpdate == nil {
		return
	}
	time.AfterFunc(s.delay, s.onUpdate)
}
