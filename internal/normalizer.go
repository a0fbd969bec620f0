package internal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Matcher decides whether a rule applies to an uppercased, whitespace-collapsed text
type Matcher interface {
	Match(text string) bool
}

// Contains matches when every substring is present
type Contains []string

func (c Contains) Match(text string) bool {
	if len(c) == 0 {
		return false
	}
	for _, s := range c {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}

type Prefix string

func (p Prefix) Match(text string) bool {
	return p != "" && strings.HasPrefix(text, string(p))
}

// Pattern matches with a regular expression
type Pattern struct {
	re *regexp.Regexp
}

// NewPattern compiles expr case-insensitively
func NewPattern(expr string) (Pattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{re: re}, nil
}

func (p Pattern) Match(text string) bool {
	return p.re != nil && p.re.MatchString(text)
}

// MerchantRule maps matching descriptions to a canonical merchant name
type MerchantRule struct {
	Name    string
	Matcher Matcher
}

// DefaultMerchantRules is evaluated in order; the first match wins.
// Patterns are written against uppercased text with single spaces.
var DefaultMerchantRules = []MerchantRule{
	{Name: "Uber Eats", Matcher: Contains{"UBER EATS"}},
	{Name: "PayPal Transfer", Matcher: Contains{"PAYPAL", "INST XFER"}},
	{Name: "PayPal", Matcher: Contains{"PAYPAL"}},
	{Name: "CareerBuilder Paycheck", Matcher: Contains{"CAREERBUILDER"}},
	{Name: "Paycheck", Matcher: Contains{"DIRECT DEP"}},
	{Name: "Interest Income", Matcher: Contains{"INTEREST PAID"}},
	{Name: "Georgia State Tax Refund", Matcher: Contains{"GEORGIA DEPARTME"}},
	{Name: "Federal Tax Refund", Matcher: Contains{"IRS TREAS", "TAX REF"}},
	{Name: "Amazon", Matcher: Contains{"AMZN"}},
	{Name: "Amazon", Matcher: Prefix("AMAZON")},
	{Name: "Netflix", Matcher: Contains{"NETFLIX"}},
	{Name: "Starbucks", Matcher: Contains{"STARBUCKS"}},
	{Name: "Walmart", Matcher: Contains{"WAL-MART"}},
	{Name: "Walmart", Matcher: Contains{"WALMART"}},
	{Name: "Target", Matcher: Prefix("TARGET ")},
	{Name: "Costco", Matcher: Contains{"COSTCO"}},
}

// UnknownMerchant is used when a transaction has no description at all
const UnknownMerchant = "Unknown"

// SuffixStripper removes trailing noise from the tokens of a description.
// Implementations must keep at least the first token.
type SuffixStripper interface {
	Strip(tokens []string) []string
}

// IDSuffix cuts at the first token after the first one that looks like a
// store number, reference ID or masked card number. A "*" prefix alone is
// not an ID: "SQ *BLUE BOTTLE" names the merchant after the marker.
type IDSuffix struct{}

func (IDSuffix) Strip(tokens []string) []string {
	for i := 1; i < len(tokens); i++ {
		if isIDToken(tokens[i]) {
			return tokens[:i]
		}
	}
	return tokens
}

func isIDToken(tok string) bool {
	if strings.HasPrefix(tok, "#") || strings.Trim(tok, "*") == "" {
		return true
	}
	return strings.ContainsFunc(tok, unicode.IsDigit)
}

// ShortTokenSuffix drops a trailing run of MinRun or more short alphabetic
// tokens, e.g. state codes or "COM US"
type ShortTokenSuffix struct {
	MaxLen int
	MinRun int
}

func (s ShortTokenSuffix) Strip(tokens []string) []string {
	start := len(tokens)
	for start > 1 && isShortToken(tokens[start-1], s.MaxLen) {
		start--
	}
	if len(tokens)-start >= s.MinRun {
		return tokens[:start]
	}
	return tokens
}

func isShortToken(tok string, maxLen int) bool {
	if len(tok) > maxLen {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// RegexSuffix removes whatever the expression matches at the end of the text
type RegexSuffix struct {
	re *regexp.Regexp
}

// NewRegexSuffix compiles expr anchored at the end of the text
func NewRegexSuffix(expr string) (RegexSuffix, error) {
	re, err := regexp.Compile("(?i)(?:" + expr + ")$")
	if err != nil {
		return RegexSuffix{}, err
	}
	return RegexSuffix{re: re}, nil
}

func (s RegexSuffix) Strip(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	text := strings.Join(tokens, " ")
	loc := s.re.FindStringIndex(text)
	if loc == nil || loc[0] == loc[1] {
		return tokens
	}
	kept := strings.Fields(text[:loc[0]])
	if len(kept) == 0 {
		return tokens[:1]
	}
	return kept
}

// DefaultSuffixStrippers are applied in order, repeatedly, until nothing changes
var DefaultSuffixStrippers = []SuffixStripper{
	IDSuffix{},
	ShortTokenSuffix{MaxLen: 3, MinRun: 2},
}

type NormalizerConfig struct {
	Rules           []MerchantRule
	SuffixStrippers []SuffixStripper
}

// DefaultNormalizerConfig returns the built-in rule table and strippers
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Rules:           append([]MerchantRule(nil), DefaultMerchantRules...),
		SuffixStrippers: append([]SuffixStripper(nil), DefaultSuffixStrippers...),
	}
}

// Normalizer maps raw descriptions to canonical merchant names.
// It is immutable after construction.
type Normalizer struct {
	rules     []MerchantRule
	strippers []SuffixStripper
	canonical map[string]bool
}

func NewNormalizer(cfg NormalizerConfig) (*Normalizer, error) {
	n := &Normalizer{
		rules:     append([]MerchantRule(nil), cfg.Rules...),
		strippers: append([]SuffixStripper(nil), cfg.SuffixStrippers...),
		canonical: make(map[string]bool),
	}
	for i, rule := range n.rules {
		if strings.TrimSpace(rule.Name) == "" {
			return nil, fmt.Errorf("merchant rule %d has no name", i)
		}
		if rule.Matcher == nil {
			return nil, fmt.Errorf("merchant rule %q has no matcher", rule.Name)
		}
		n.canonical[rule.Name] = true
	}
	return n, nil
}

// Normalize returns the canonical merchant for a transaction.
// original is preferred; description is used when original is blank.
func (n *Normalizer) Normalize(original, description string) string {
	text := original
	if strings.TrimSpace(text) == "" {
		text = description
	}
	name, _ := n.Match(text)
	return name
}

// Match returns the canonical name for text and whether a rule produced it
func (n *Normalizer) Match(text string) (string, bool) {
	collapsed := strings.Join(strings.Fields(text), " ")
	if n.canonical[collapsed] {
		return collapsed, true
	}

	upper := strings.ToUpper(collapsed)
	for _, rule := range n.rules {
		if rule.Matcher.Match(upper) {
			return rule.Name, true
		}
	}
	return n.cleanup(upper), false
}

// processorPrefix matches card processor markers such as "SQ *", "DD *" or "TST* "
var processorPrefix = regexp.MustCompile(`^[A-Z]{2,3} ?\* ?`)

// stripProcessorPrefix keeps the merchant named after a processor marker
func stripProcessorPrefix(upper string) string {
	loc := processorPrefix.FindStringIndex(upper)
	if loc == nil || strings.TrimSpace(upper[loc[1]:]) == "" {
		return upper
	}
	return upper[loc[1]:]
}

// trimGluedID drops a store number attached to the first token, as in
// "BP#8713 CIRCLE K", together with everything after it
func trimGluedID(tokens []string) []string {
	first := tokens[0]
	idx := strings.IndexByte(first, '#')
	if idx <= 0 || !strings.ContainsFunc(first[idx:], unicode.IsDigit) {
		return tokens
	}
	return []string{first[:idx]}
}

func (n *Normalizer) cleanup(upper string) string {
	tokens := strings.Fields(stripProcessorPrefix(upper))
	if len(tokens) == 0 {
		return UnknownMerchant
	}
	tokens = trimGluedID(tokens)
	for changed := true; changed; {
		changed = false
		for _, s := range n.strippers {
			stripped := s.Strip(tokens)
			if len(stripped) > 0 && len(stripped) < len(tokens) {
				tokens = stripped
				changed = true
			}
		}
	}
	// Casers carry state, so each call gets its own
	return cases.Title(language.English).String(strings.Join(tokens, " "))
}
