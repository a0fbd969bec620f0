package internal

import (
	"bytes"
	"strings"
	"testing"
)

func suggestEntries(t *testing.T, n *Normalizer) []Entry {
	t.Helper()
	var txs []Transaction
	for i, original := range []string{
		"SHELL OIL 57442",
		"SHELL SERVICE STATION 99",
		"SHELL OIL 12345",
		"KROGER #1 ATLANTA GA",
		"KROGER #2 MACON GA",
		"STARBUCKS STORE 1",
		"STARBUCKS KIOSK 2",
		"QT 123",
		"QT SHOP 456",
		"PUBLIX SUPER MARKETS",
		"PUBLIX PHARMACY",
	} {
		txs = append(txs, Transaction{Row: i, Date: date("2025-01-01"), OriginalDescription: original, Amount: dec("-1")})
	}
	return Annotate(txs, n)
}

func TestSuggestRules(t *testing.T) {
	n := defaultNormalizer(t)
	suggestions := SuggestRules(suggestEntries(t, n), n)

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %+v", suggestions)
	}

	shell := suggestions[0]
	if shell.Prefix != "SHELL" || shell.Name != "Shell" || shell.Transactions != 3 {
		t.Errorf("unexpected first suggestion: %+v", shell)
	}
	if len(shell.Names) != 2 || shell.Names[0] != "Shell Oil" || shell.Names[1] != "Shell Service Station" {
		t.Errorf("unexpected merged names: %v", shell.Names)
	}

	publix := suggestions[1]
	if publix.Prefix != "PUBLIX" || publix.Transactions != 2 {
		t.Errorf("unexpected second suggestion: %+v", publix)
	}
}

func TestSuggestRules_None(t *testing.T) {
	n := defaultNormalizer(t)
	entries := Annotate([]Transaction{
		{OriginalDescription: "NETFLIX.COM", Amount: dec("-15.49")},
		{OriginalDescription: "KROGER #1", Amount: dec("-3")},
	}, n)

	if got := SuggestRules(entries, n); len(got) != 0 {
		t.Errorf("expected no suggestions, got %+v", got)
	}
}

func TestPrintSuggestionsYAML_RoundTrip(t *testing.T) {
	n := defaultNormalizer(t)
	suggestions := SuggestRules(suggestEntries(t, n), n)

	var buf bytes.Buffer
	if err := PrintSuggestionsYAML(&buf, suggestions); err != nil {
		t.Fatalf("PrintSuggestionsYAML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "name: Shell") || !strings.Contains(out, "prefix: SHELL") {
		t.Errorf("unexpected YAML:\n%s", out)
	}

	cfg, err := ParseConfig(buf.Bytes())
	if err != nil {
		t.Fatalf("suggested config does not parse: %v\n%s", err, out)
	}
	merged, err := cfg.NewNormalizer()
	if err != nil {
		t.Fatal(err)
	}
	if got := merged.Normalize("SHELL SERVICE STATION 99", ""); got != "Shell" {
		t.Errorf("suggested rule not applied, got %q", got)
	}
	if got := merged.Normalize("NETFLIX.COM", ""); got != "Netflix" {
		t.Errorf("default rules should still apply, got %q", got)
	}
}
