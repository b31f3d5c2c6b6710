package pintable

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Factorization merges signal names which only differ by the text matched by
// the first capture group of Pattern. The differing parts are joined with
// Sep, for example "ADC1_IN0" and "ADC2_IN0" give "ADC12_IN0".
type Factorization struct {
	Pattern string
	Sep     string
}

// FilterConfig lists the rules of a signal filter.
type FilterConfig struct {
	// Exclude holds regular expression fragments. A signal whose name starts
	// with a fragment followed by a digit or an underscore is dropped.
	Exclude []string

	// Substitutions are prefix patterns shortening signal names.
	Substitutions []string

	// Factorizations are applied in order after substitutions.
	Factorizations []Factorization
}

// DefaultFilterConfig returns the built-in substitution and factorization
// rules, without any exclusion.
func DefaultFilterConfig() *FilterConfig {
	cfg := &FilterConfig{
		Substitutions:  make([]string, len(builtinSubstitutions)),
		Factorizations: make([]Factorization, len(builtinFactorizations)),
	}
	copy(cfg.Substitutions, builtinSubstitutions)
	copy(cfg.Factorizations, builtinFactorizations)
	return cfg
}

// PatternError reports a rule which is not a valid regular expression.
type PatternError struct {
	Kind    string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pintable: bad %s pattern %q: %v", e.Kind, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Filter reduces the list of signals of a table cell: shorter names, merged
// similar names and excluded peripherals.
type Filter struct {
	exclude *regexp.Regexp
	subs    []*regexp.Regexp
	facts   []factorizer
}

type factorizer struct {
	re  *regexp.Regexp
	sep string
}

// CompileFilter returns a filter using the built-in rules and the given
// exclusion fragments.
func CompileFilter(exclude []string) (*Filter, error) {
	cfg := DefaultFilterConfig()
	cfg.Exclude = exclude
	return NewFilter(cfg)
}

// NewFilter compiles every rule of cfg.
func NewFilter(cfg *FilterConfig) (*Filter, error) {
	f := &Filter{}

	if len(cfg.Exclude) > 0 {
		alts := make([]string, 0, len(cfg.Exclude))
		for _, p := range cfg.Exclude {
			alt := fmt.Sprintf(`^(?:%s)[0-9_]`, p)
			if _, err := regexp.Compile(alt); err != nil {
				return nil, &PatternError{Kind: "exclude", Pattern: p, Err: err}
			}
			alts = append(alts, "(?:"+alt+")")
		}
		re, err := regexp.Compile(strings.Join(alts, "|"))
		if err != nil {
			return nil, errors.Wrap(err, "pintable: exclusion set")
		}
		f.exclude = re
	}

	for _, p := range cfg.Substitutions {
		re, err := regexp.Compile(fmt.Sprintf(`^%s([0-9_])`, p))
		if err != nil {
			return nil, &PatternError{Kind: "substitution", Pattern: p, Err: err}
		}
		f.subs = append(f.subs, re)
	}

	for _, fact := range cfg.Factorizations {
		re, err := regexp.Compile(fact.Pattern)
		if err != nil {
			return nil, &PatternError{Kind: "factorization", Pattern: fact.Pattern, Err: err}
		}
		if re.NumSubexp() < 1 {
			return nil, &PatternError{Kind: "factorization", Pattern: fact.Pattern,
				Err: errors.New("no capture group")}
		}
		f.facts = append(f.facts, factorizer{re: re, sep: fact.Sep})
	}

	return f, nil
}

// Substitute applies every substitution rule in order to a signal name.
func (f *Filter) Substitute(name string) string {
	for _, re := range f.subs {
		name = re.ReplaceAllStringFunc(name, func(m string) string {
			var sb strings.Builder
			for i, sub := range re.FindStringSubmatch(m) {
				if i > 0 {
					sb.WriteString(sub)
				}
			}
			return sb.String()
		})
	}
	return name
}

// Excluded reports whether a signal name is dropped by the exclusion set.
func (f *Filter) Excluded(name string) bool {
	return f.exclude != nil && f.exclude.MatchString(name)
}

// Apply filters the signal names of one table cell. Exclusion is checked
// last, on the factorized names.
func (f *Filter) Apply(signals []string) []string {
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = f.Substitute(s)
	}
	for _, fact := range f.facts {
		names = factorize(names, fact.re, fact.sep)
	}
	out := names[:0]
	for _, n := range names {
		if !f.Excluded(n) {
			out = append(out, n)
		}
	}
	return out
}

// Rules returns a readable description of the compiled rules, one per line.
func (f *Filter) Rules() []string {
	var lines []string
	for _, re := range f.subs {
		lines = append(lines, "substitute "+re.String())
	}
	for _, fact := range f.facts {
		lines = append(lines, fmt.Sprintf("factorize %s sep %q", fact.re.String(), fact.sep))
	}
	if f.exclude != nil {
		lines = append(lines, "exclude "+f.exclude.String())
	}
	return lines
}

// factorize groups the names matching re by the text around the first capture
// group, and joins the captured fragments of each group with sep. Groups come
// first, in order of first appearance, followed by names which do not match.
func factorize(names []string, re *regexp.Regexp, sep string) []string {
	type outer struct {
		prefix, suffix string
	}
	var order []outer
	terms := make(map[outer][]string)
	var others []string
	for _, name := range names {
		m := re.FindStringSubmatchIndex(name)
		if m == nil || m[2] < 0 {
			others = append(others, name)
			continue
		}
		key := outer{prefix: name[:m[2]], suffix: name[m[3]:]}
		if _, ok := terms[key]; !ok {
			order = append(order, key)
		}
		terms[key] = append(terms[key], name[m[2]:m[3]])
	}
	out := make([]string, 0, len(order)+len(others))
	for _, key := range order {
		out = append(out, key.prefix+strings.Join(terms[key], sep)+key.suffix)
	}
	return append(out, others...)
}
