package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigEnvVar overrides the default config file location
const ConfigEnvVar = "CASHFLOW_SUMMARY_CONFIG"

// RuleConfig is a merchant rule as written in YAML. Exactly one of
// Contains, Prefix and Pattern should be set; matching is against the
// uppercased description with whitespace collapsed.
type RuleConfig struct {
	Name     string   `yaml:"name"`
	Contains []string `yaml:"contains,omitempty"` // all must be present
	Prefix   string   `yaml:"prefix,omitempty"`
	Pattern  string   `yaml:"pattern,omitempty"` // case-insensitive regex
}

type MerchantConfig struct {
	// UseDefaultRules controls whether the built-in rule table is appended
	// after the user rules. Defaults to true.
	UseDefaultRules *bool `yaml:"use_default_rules,omitempty"`

	// Rules are evaluated before the defaults; first match wins
	Rules []RuleConfig `yaml:"rules,omitempty"`

	// StripSuffixes are extra regexes removed from the end of unmatched descriptions
	StripSuffixes []string `yaml:"strip_suffixes,omitempty"`
}

type Config struct {
	Merchants MerchantConfig `yaml:"merchants,omitempty"`

	// TopMerchants is how many merchants each month lists before "others"
	TopMerchants *int `yaml:"top_merchants,omitempty"`

	// PendingWindowDays is how many days after a pending transaction a
	// posted counterpart may be dated
	PendingWindowDays *int `yaml:"pending_window_days,omitempty"`

	// Currency is used for display only
	Currency string `yaml:"currency,omitempty"`

	// compiled normalizer settings (not serialized)
	normalizer NormalizerConfig `yaml:"-"`
}

// DefaultConfigPath returns $CASHFLOW_SUMMARY_CONFIG or ~/.cashflow-summary/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".cashflow-summary", "config.yaml")
}

// NewDefaultConfig creates a config with only the built-in rules.
// Use this when no config file exists.
func NewDefaultConfig() *Config {
	return &Config{normalizer: DefaultNormalizerConfig()}
}

// LoadConfig reads and compiles a YAML config file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ParseConfig(data)
}

// LoadConfigOrDefault is LoadConfig, except a missing file yields the default config
func LoadConfigOrDefault(path string) (*Config, error) {
	if path == "" {
		return NewDefaultConfig(), nil
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewDefaultConfig(), nil
	}
	return cfg, err
}

func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.TopMerchants != nil && *cfg.TopMerchants < 0 {
		return nil, fmt.Errorf("invalid top_merchants %d: must not be negative", *cfg.TopMerchants)
	}
	if cfg.PendingWindowDays != nil && *cfg.PendingWindowDays < 0 {
		return nil, fmt.Errorf("invalid pending_window_days %d: must not be negative", *cfg.PendingWindowDays)
	}

	for _, rc := range cfg.Merchants.Rules {
		rule, err := rc.compile()
		if err != nil {
			return nil, err
		}
		cfg.normalizer.Rules = append(cfg.normalizer.Rules, rule)
	}

	// User rules come first so they take precedence over the defaults
	useDefaults := cfg.Merchants.UseDefaultRules == nil || *cfg.Merchants.UseDefaultRules
	if useDefaults {
		cfg.normalizer.Rules = append(cfg.normalizer.Rules, DefaultMerchantRules...)
	}

	cfg.normalizer.SuffixStrippers = append(cfg.normalizer.SuffixStrippers, DefaultSuffixStrippers...)
	for _, expr := range cfg.Merchants.StripSuffixes {
		s, err := NewRegexSuffix(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid strip suffix pattern %q: %w", expr, err)
		}
		cfg.normalizer.SuffixStrippers = append(cfg.normalizer.SuffixStrippers, s)
	}

	return &cfg, nil
}

func (rc RuleConfig) compile() (MerchantRule, error) {
	if rc.Name == "" {
		return MerchantRule{}, fmt.Errorf("merchant rule without a name")
	}

	set := 0
	var matcher Matcher
	if len(rc.Contains) > 0 {
		set++
		var c Contains
		for _, s := range rc.Contains {
			c = append(c, normalizeMatchText(s))
		}
		matcher = c
	}
	if rc.Prefix != "" {
		set++
		matcher = Prefix(normalizeMatchText(rc.Prefix))
	}
	if rc.Pattern != "" {
		set++
		p, err := NewPattern(rc.Pattern)
		if err != nil {
			return MerchantRule{}, fmt.Errorf("invalid merchant pattern %q: %w", rc.Pattern, err)
		}
		matcher = p
	}
	if set != 1 {
		return MerchantRule{}, fmt.Errorf("merchant rule %q must set exactly one of contains, prefix or pattern", rc.Name)
	}

	return MerchantRule{Name: rc.Name, Matcher: matcher}, nil
}

// NewNormalizer builds the merchant normalizer described by the config
func (c *Config) NewNormalizer() (*Normalizer, error) {
	if c == nil {
		return NewNormalizer(DefaultNormalizerConfig())
	}
	return NewNormalizer(c.normalizer)
}

// GetTopMerchants returns the configured top N, or the default
func (c *Config) GetTopMerchants() int {
	if c == nil || c.TopMerchants == nil {
		return DefaultTopMerchants
	}
	return *c.TopMerchants
}

func (c *Config) GetPendingWindowDays() int {
	if c == nil || c.PendingWindowDays == nil {
		return 0
	}
	return *c.PendingWindowDays
}

func (c *Config) GetCurrency() string {
	if c == nil || c.Currency == "" {
		return "USD"
	}
	return c.Currency
}

// normalizeMatchText puts configured text in the form rules are matched against
func normalizeMatchText(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}
