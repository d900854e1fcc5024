// Package matcher implements the compiled (pattern, substitute) predicate
// described in spec §4.1: literal or regex, case-sensitive or not, plus the
// basename glob include/exclude tests used by the walker.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options configures how a Matcher is compiled.
type Options struct {
	IgnoreCase bool
	UseRegex   bool
}

// Span is a non-overlapping match location, as byte offsets into the
// searched string.
type Span struct {
	Start, End int
}

// Matcher is the compiled predicate over strings. It is immutable and safe
// for concurrent use by multiple goroutines once constructed.
type Matcher struct {
	pattern    string
	substitute string
	opts       Options
	re         *regexp.Regexp // non-nil only in regex mode
	needleLow  string         // lower-cased pattern, used in case-insensitive literal mode
}

// New compiles a Matcher. Regex compilation failure is the only way New can
// fail; callers should surface it as an InvalidConfig error.
func New(pattern, substitute string, opts Options) (*Matcher, error) {
	m := &Matcher{pattern: pattern, substitute: substitute, opts: opts}

	if opts.UseRegex {
		expr := pattern
		if opts.IgnoreCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
		}
		m.re = re
	} else if opts.IgnoreCase {
		m.needleLow = strings.ToLower(pattern)
	}

	return m, nil
}

// FindAll returns every non-overlapping match span in text, left to right,
// in the greedy order implied by the underlying mode.
func (m *Matcher) FindAll(text string) []Span {
	if m.re != nil {
		locs := m.re.FindAllStringIndex(text, -1)
		spans := make([]Span, len(locs))
		for i, loc := range locs {
			spans[i] = Span{Start: loc[0], End: loc[1]}
		}
		return spans
	}

	if m.pattern == "" {
		return nil
	}

	var spans []Span
	haystack := text
	needle := m.pattern
	if m.opts.IgnoreCase {
		haystack = strings.ToLower(text)
		needle = m.needleLow
	}

	pos := 0
	for {
		idx := strings.Index(haystack[pos:], needle)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(needle)
		spans = append(spans, Span{Start: start, End: end})
		pos = end // do not re-scan the matched (or inserted) region
	}
	return spans
}

// MatchString reports whether text contains at least one match. Used for
// name-eligibility checks where only a boolean is needed.
func (m *Matcher) MatchString(text string) bool {
	if m.re != nil {
		return m.re.MatchString(text)
	}
	if m.pattern == "" {
		return false
	}
	if m.opts.IgnoreCase {
		return strings.Contains(strings.ToLower(text), m.needleLow)
	}
	return strings.Contains(text, m.pattern)
}

// ReplaceAll substitutes every match in text and returns the rewritten text
// plus the number of replacements made. In regex mode substitute is a
// replacement template supporting $1-style back-references; in literal mode
// it is inserted byte-for-byte with no case preservation.
func (m *Matcher) ReplaceAll(text string) (string, int) {
	if m.re != nil {
		count := len(m.re.FindAllStringIndex(text, -1))
		if count == 0 {
			return text, 0
		}
		return m.re.ReplaceAllString(text, m.substitute), count
	}

	spans := m.FindAll(text)
	if len(spans) == 0 {
		return text, 0
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, sp := range spans {
		b.WriteString(text[last:sp.Start])
		b.WriteString(m.substitute)
		last = sp.End
	}
	b.WriteString(text[last:])
	return b.String(), len(spans)
}

// Pattern returns the original (pre-compilation) pattern string.
func (m *Matcher) Pattern() string { return m.pattern }

// Substitute returns the original substitute string/template.
func (m *Matcher) Substitute() string { return m.substitute }

// MatchGlobBasename reports whether basename matches the conventional
// *, ?, [...] (and doublestar **) glob pattern.
func MatchGlobBasename(pattern, basename string) bool {
	ok, err := doublestar.Match(pattern, basename)
	return err == nil && ok
}

// GlobFilter implements the include/exclude glob test from spec §4.1: an
// entry is processed iff it matches at least one include (or the include
// list is empty) AND no exclude.
type GlobFilter struct {
	Include []string
	Exclude []string
}

// Allows reports whether basename passes this filter.
func (f GlobFilter) Allows(basename string) bool {
	if f.Excludes(basename) {
		return false
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, pat := range f.Include {
		if MatchGlobBasename(pat, basename) {
			return true
		}
	}
	return false
}

// Excludes reports whether basename matches an exclude pattern. Unlike
// Allows, it ignores Include: a directory whose name no include pattern
// matches must still be descended into, since --include is a leaf filter,
// not a subtree filter. --exclude, by contrast, legitimately prunes a whole
// subtree, so directory descent checks Excludes alone.
func (f GlobFilter) Excludes(basename string) bool {
	for _, pat := range f.Exclude {
		if MatchGlobBasename(pat, basename) {
			return true
		}
	}
	return false
}
