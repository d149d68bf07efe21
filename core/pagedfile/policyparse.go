package pagedfile

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// policyGrammar is the participle grammar for checksum-policy strings.
// Examples: "none", "all", "sampled(25)".
//
//nolint:govet // participle grammar tags are not standard struct tags
type policyGrammar struct {
	Kind    string `@Ident`
	Percent *int   `( "(" @Int ")" )?`
}

var policyLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var policyParser = participle.MustBuild[policyGrammar](
	participle.Lexer(policyLexer),
	participle.Elide("Whitespace"),
)

// ParsePolicy parses a checksum-policy string into a ChecksumPolicy.
// Supported forms:
//   - "none"
//   - "all"
//   - "sampled(N)" where N is a percentage in (0, 100]
func ParsePolicy(s string) (ChecksumPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ChecksumPolicy{}, fmt.Errorf("pagedfile: empty policy string")
	}

	parsed, err := policyParser.ParseString("", s)
	if err != nil {
		return ChecksumPolicy{}, fmt.Errorf("pagedfile: invalid policy %q: %w", s, err)
	}

	switch strings.ToLower(parsed.Kind) {
	case "none":
		if parsed.Percent != nil {
			return ChecksumPolicy{}, fmt.Errorf("pagedfile: policy %q takes no percentage", s)
		}
		return PolicyNone, nil
	case "all":
		if parsed.Percent != nil {
			return ChecksumPolicy{}, fmt.Errorf("pagedfile: policy %q takes no percentage", s)
		}
		return PolicyAll, nil
	case "sampled":
		if parsed.Percent == nil {
			return ChecksumPolicy{}, fmt.Errorf("pagedfile: policy %q requires a percentage, e.g. sampled(25)", s)
		}
		return PolicySampled(*parsed.Percent)
	default:
		return ChecksumPolicy{}, fmt.Errorf("pagedfile: unknown policy kind %q", parsed.Kind)
	}
}
