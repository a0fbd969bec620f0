package internal

import (
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// RuleSuggestion proposes a prefix rule for names that only the generic
// cleanup produced and that look like the same merchant
type RuleSuggestion struct {
	Prefix       string
	Name         string
	Names        []string // cleaned names the rule would merge
	Transactions int
}

// SuggestRules groups merchants that no rule matched by their first word.
// A word shared by two or more distinct names becomes a suggestion.
func SuggestRules(entries []Entry, n *Normalizer) []RuleSuggestion {
	type group struct {
		names map[string]bool
		count int
	}
	byPrefix := make(map[string]*group)

	for _, e := range entries {
		name, byRule := n.Match(sourceText(e.Transaction))
		if byRule {
			continue
		}
		words := strings.Fields(strings.ToUpper(name))
		if len(words) == 0 || len(words[0]) < 3 {
			continue
		}
		prefix := words[0]
		g, ok := byPrefix[prefix]
		if !ok {
			g = &group{names: make(map[string]bool)}
			byPrefix[prefix] = g
		}
		g.names[name] = true
		g.count++
	}

	var suggestions []RuleSuggestion
	for prefix, g := range byPrefix {
		if len(g.names) < 2 {
			continue
		}
		var names []string
		for name := range g.names {
			names = append(names, name)
		}
		sort.Strings(names)
		suggestions = append(suggestions, RuleSuggestion{
			Prefix:       prefix,
			Name:         cases.Title(language.English).String(prefix),
			Names:        names,
			Transactions: g.count,
		})
	}

	// Most transactions first
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Transactions != suggestions[j].Transactions {
			return suggestions[i].Transactions > suggestions[j].Transactions
		}
		return suggestions[i].Prefix < suggestions[j].Prefix
	})
	return suggestions
}

// SuggestionsConfig renders suggestions as a config snippet
func SuggestionsConfig(suggestions []RuleSuggestion) *Config {
	cfg := &Config{}
	for _, s := range suggestions {
		cfg.Merchants.Rules = append(cfg.Merchants.Rules, RuleConfig{Name: s.Name, Prefix: s.Prefix})
	}
	return cfg
}

// PrintSuggestionsYAML writes the suggestions as a YAML config snippet
func PrintSuggestionsYAML(w io.Writer, suggestions []RuleSuggestion) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(SuggestionsConfig(suggestions)); err != nil {
		return err
	}
	return enc.Close()
}
