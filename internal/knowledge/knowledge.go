// Package knowledge holds the portfolio knowledge base and loads it from the
// configured store, falling back to a bundled copy.
package knowledge

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// Base is a versioned knowledge base document
type Base struct {
	Version  int                       `yaml:"version"`
	Profile  domain.Profile            `yaml:"profile"`
	Sections []domain.KnowledgeSection `yaml:"sections"`
}

// Parse decodes a knowledge base document and orders its sections
func Parse(data []byte) (*Base, error) {
	var b Base
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if len(b.Sections) == 0 {
		return nil, errors.New("knowledge base has no sections")
	}
	for i, s := range b.Sections {
		if strings.TrimSpace(s.Section) == "" {
			return nil, fmt.Errorf("knowledge base section %d has no name", i)
		}
	}
	SortSections(b.Sections)
	return &b, nil
}

// LoadFile reads a knowledge base document from disk
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	return Parse(data)
}

// Default returns the bundled knowledge base
func Default() *Base {
	b, err := Parse(fallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("bundled knowledge base is invalid: %v", err))
	}
	return b
}

// SortSections orders sections by name, as the store does
func SortSections(sections []domain.KnowledgeSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Section < sections[j].Section
	})
}

// Store reads and writes knowledge sections
type Store interface {
	// ListSections returns every section ordered by section name.
	ListSections(ctx context.Context) ([]domain.KnowledgeSection, error)

	// SampleSections returns at most limit sections.
	SampleSections(ctx context.Context, limit int) ([]domain.KnowledgeSection, error)

	// UpsertSections inserts or replaces sections by name.
	UpsertSections(ctx context.Context, sections []domain.KnowledgeSection) error

	Ping(ctx context.Context) error
	Close() error
}

// Result is the outcome of a knowledge load
type Result struct {
	Sections []domain.KnowledgeSection
	Fallback bool
}

// Loader loads sections from a store and substitutes the fallback knowledge
// base when the store fails or is empty. It never returns an error.
type Loader struct {
	store    Store
	fallback *Base
	logger   *zap.Logger
}

// NewLoader creates a loader. store may be nil, in which case the fallback
// is always used.
func NewLoader(store Store, fallback *Base, logger *zap.Logger) *Loader {
	if fallback == nil {
		fallback = Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		store:    store,
		fallback: fallback,
		logger:   logger.Named("knowledge"),
	}
}

// Fallback returns the fallback knowledge base
func (l *Loader) Fallback() *Base {
	return l.fallback
}

// Load fetches the knowledge sections
func (l *Loader) Load(ctx context.Context) Result {
	if l.store == nil {
		l.logger.Warn("No knowledge store configured, using fallback knowledge")
		return l.fallbackResult()
	}

	sections, err := l.store.ListSections(ctx)
	if err != nil {
		l.logger.Error("Failed to load knowledge sections, using fallback knowledge", zap.Error(err))
		return l.fallbackResult()
	}
	if len(sections) == 0 {
		l.logger.Warn("Knowledge store is empty, using fallback knowledge")
		return l.fallbackResult()
	}

	l.logger.Info("Loaded knowledge sections", zap.Int("count", len(sections)))
	return Result{Sections: sections}
}

func (l *Loader) fallbackResult() Result {
	sections := make([]domain.KnowledgeSection, len(l.fallback.Sections))
	copy(sections, l.fallback.Sections)
	return Result{Sections: sections, Fallback: true}
}
