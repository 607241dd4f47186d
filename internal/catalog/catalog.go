// Package catalog holds the monitored countries and the signal vocabulary.
//
// A Table is plain configuration data. Compile validates it and turns every
// term, pattern and keyword into a matcher once per process; the compiled
// catalog is then passed explicitly to the components that need it.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

// Entity is one monitored country.
type Entity struct {
	Name     string   `yaml:"name"`
	Region   string   `yaml:"region"`
	Terms    []string `yaml:"terms"`
	Patterns []string `yaml:"patterns"`
	Baseline float64  `yaml:"baseline"`
}

// Table is the uncompiled catalog.
type Table struct {
	Entities []Entity `yaml:"entities"`
	Keywords []string `yaml:"keywords"`
}

// Default returns the built-in table of 54 African countries.
func Default() Table {
	return Table{Entities: defaultEntities(), Keywords: defaultKeywords()}
}

// Load reads a YAML table from path. An empty path yields the built-in table.
func Load(path string) (Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	var t Table
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return Table{}, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return t, nil
}

// Validate reports every structural problem in the table.
func (t Table) Validate() error {
	var errs []error
	if len(t.Entities) == 0 {
		errs = append(errs, errors.New("catalog has no entities"))
	}

	seen := make(map[string]struct{}, len(t.Entities))
	for i, e := range t.Entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("entity %d: empty name", i))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("entity %q: duplicate name", name))
		}
		seen[name] = struct{}{}

		if len(e.Terms) == 0 && len(e.Patterns) == 0 {
			errs = append(errs, fmt.Errorf("entity %q: needs at least one term or pattern", name))
		}
		for _, term := range e.Terms {
			if strings.TrimSpace(term) == "" {
				errs = append(errs, fmt.Errorf("entity %q: empty term", name))
			}
		}
		if e.Baseline <= 0 {
			errs = append(errs, fmt.Errorf("entity %q: baseline must be positive, got %v", name, e.Baseline))
		}
	}

	for i, kw := range t.Keywords {
		if strings.TrimSpace(kw) == "" {
			errs = append(errs, fmt.Errorf("keyword %d: empty", i))
		}
	}

	return errors.Join(errs...)
}

// Compiled is a validated table with every matcher built.
type Compiled struct {
	entities []CompiledEntity
	keywords []Keyword
	index    map[string]int
}

// CompiledEntity is an entity with its term and pattern matchers.
type CompiledEntity struct {
	Entity
	terms    []*regexp2.Regexp
	patterns []*regexp2.Regexp
}

// Keyword is a lowercase signal keyword matched as a whole word.
type Keyword struct {
	Word string
	re   *regexp2.Regexp
}

// Compile validates t and builds its matchers. Any term, pattern or keyword
// that fails to compile aborts the whole catalog.
func Compile(t Table) (*Compiled, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Compiled{
		entities: make([]CompiledEntity, 0, len(t.Entities)),
		index:    make(map[string]int, len(t.Entities)),
	}

	for _, e := range t.Entities {
		ce := CompiledEntity{Entity: e}
		ce.Name = strings.TrimSpace(e.Name)
		for _, term := range e.Terms {
			re, err := wholeWord(term)
			if err != nil {
				return nil, fmt.Errorf("entity %q term %q: %w", ce.Name, term, err)
			}
			ce.terms = append(ce.terms, re)
		}
		for _, pattern := range e.Patterns {
			re, err := regexp2.Compile(pattern, regexp2.None)
			if err != nil {
				return nil, fmt.Errorf("entity %q pattern %q: %w", ce.Name, pattern, err)
			}
			ce.patterns = append(ce.patterns, re)
		}
		c.index[ce.Name] = len(c.entities)
		c.entities = append(c.entities, ce)
	}

	seen := make(map[string]struct{}, len(t.Keywords))
	for _, raw := range t.Keywords {
		word := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}

		re, err := wholeWord(word)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", raw, err)
		}
		c.keywords = append(c.keywords, Keyword{Word: word, re: re})
	}

	return c, nil
}

// MustCompile is Compile for tables known to be valid, such as Default.
func MustCompile(t Table) *Compiled {
	c, err := Compile(t)
	if err != nil {
		panic(err)
	}
	return c
}

// Entities returns the compiled entities in declaration order.
func (c *Compiled) Entities() []CompiledEntity {
	return c.entities
}

// Keywords returns the deduplicated vocabulary in declaration order.
func (c *Compiled) Keywords() []Keyword {
	return c.keywords
}

// Len is the number of entities.
func (c *Compiled) Len() int {
	return len(c.entities)
}

// Lookup finds an entity by its canonical name.
func (c *Compiled) Lookup(name string) (CompiledEntity, bool) {
	i, ok := c.index[name]
	if !ok {
		return CompiledEntity{}, false
	}
	return c.entities[i], true
}

// Match reports whether the lowercased haystack mentions the entity. Terms are
// tried first in declaration order, then patterns; the first hit wins.
func (e CompiledEntity) Match(haystack string) bool {
	for _, re := range e.terms {
		if matches(re, haystack) {
			return true
		}
	}
	for _, re := range e.patterns {
		if matches(re, haystack) {
			return true
		}
	}
	return false
}

// In reports whether the keyword occurs as a whole word in the lowercased haystack.
func (k Keyword) In(haystack string) bool {
	return matches(k.re, haystack)
}

// wholeWord builds a case-folded, Unicode-aware \b...\b matcher. The stdlib
// regexp \b only understands ASCII word characters, which breaks terms such
// as "lomé" or "épidémie".
func wholeWord(term string) (*regexp2.Regexp, error) {
	lowered := strings.ToLower(strings.TrimSpace(term))
	return regexp2.Compile(`\b`+regexp2.Escape(lowered)+`\b`, regexp2.None)
}

// No match timeout is configured, so MatchString cannot fail.
func matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}
