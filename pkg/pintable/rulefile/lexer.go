package rulefile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RuleLexer defines the lexical structure of rule files.
var RuleLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Shell style comments
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Keywords
	{Name: "KwExclude", Pattern: `\bexclude\b`},
	{Name: "KwSubstitute", Pattern: `\bsubstitute\b`},
	{Name: "KwFactorize", Pattern: `\bfactorize\b`},
	{Name: "KwSep", Pattern: `\bsep\b`},

	// Patterns are kept verbatim, there is no escape sequence so that
	// regular expressions need no double backslashes.
	{Name: "String", Pattern: `"[^"\n]*"`},
	{Name: "Semicolon", Pattern: `;`},

	// Anything else is reported by the parser as an unexpected token
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})
