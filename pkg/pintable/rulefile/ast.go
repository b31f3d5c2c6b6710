package rulefile

import (
	"github.com/schodet/pinmap/pkg/pintable"
)

// File is a parsed rule file.
type File struct {
	Rules []*Rule `@@*`
}

// Rule is one statement of a rule file.
type Rule struct {
	Exclude    *String        `  KwExclude @@ Semicolon?`
	Substitute *String        `| KwSubstitute @@ Semicolon?`
	Factorize  *FactorizeRule `| @@`
}

// FactorizeRule declares a factorization with an optional separator.
// Example: factorize "[SUT]\d_(.+)" sep "/";
type FactorizeRule struct {
	Pattern *String `KwFactorize @@`
	Sep     *String `( KwSep @@ )? Semicolon?`
}

// String represents a string literal
type String struct {
	Value string `@String`
}

// GetValue returns the string value without quotes
func (s *String) GetValue() string {
	if len(s.Value) >= 2 && s.Value[0] == '"' && s.Value[len(s.Value)-1] == '"' {
		return s.Value[1 : len(s.Value)-1]
	}
	return s.Value
}

// Apply appends the rules of the file to a filter configuration. Rules keep
// their file order and come after the rules already in cfg.
func (f *File) Apply(cfg *pintable.FilterConfig) {
	for _, r := range f.Rules {
		switch {
		case r.Exclude != nil:
			cfg.Exclude = append(cfg.Exclude, r.Exclude.GetValue())
		case r.Substitute != nil:
			cfg.Substitutions = append(cfg.Substitutions, r.Substitute.GetValue())
		case r.Factorize != nil:
			fact := pintable.Factorization{Pattern: r.Factorize.Pattern.GetValue()}
			if r.Factorize.Sep != nil {
				fact.Sep = r.Factorize.Sep.GetValue()
			}
			cfg.Factorizations = append(cfg.Factorizations, fact)
		}
	}
}
