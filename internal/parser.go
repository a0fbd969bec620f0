package internal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Parser reads a transaction export into raw rows
type Parser interface {
	Parse(path string) ([]Row, error)
}

// ParserFunc is a function that implements Parser
type ParserFunc func(path string) ([]Row, error)

func (f ParserFunc) Parse(path string) ([]Row, error) {
	return f(path)
}

// DefaultSource is used when neither a flag, a prefix nor the extension names a format
const DefaultSource = "csv"

// parsers is the registry of available parsers
var parsers = map[string]Parser{}

// extensions maps file extensions to parser names
var extensions = map[string]string{}

// RegisterParser registers a parser with the given name and file extensions
func RegisterParser(name string, p Parser, exts ...string) {
	parsers[name] = p
	for _, ext := range exts {
		extensions[strings.ToLower(ext)] = name
	}
}

// GetParser returns the parser for the given source type
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown source type: %s (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources returns the registered source types, sorted
func AvailableSources() []string {
	var sources []string
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

// IsKnownParser returns true if the name is a registered parser
func IsKnownParser(name string) bool {
	_, ok := parsers[name]
	return ok
}

// ParseFileArg parses a file argument that may have a format prefix.
// Returns (format, path). If no valid prefix, format is empty.
// Example: "simple-json:data.json" → ("simple-json", "data.json")
// Example: "data.json" → ("", "data.json")
// Example: "C:\path\file.csv" → ("", "C:\path\file.csv") // Windows path
func ParseFileArg(arg string) (format, path string) {
	idx := strings.Index(arg, ":")
	if idx == -1 {
		return "", arg
	}
	prefix := arg[:idx]
	if IsKnownParser(prefix) {
		return prefix, arg[idx+1:]
	}
	return "", arg // Not a known parser, treat whole thing as path
}

// ResolveSource picks the parser name for a file.
// Priority: explicit source, format prefix, file extension, DefaultSource.
func ResolveSource(source, fileArg string) (format, path string) {
	format, path = ParseFileArg(fileArg)
	if source != "" {
		return source, path
	}
	if format != "" {
		return format, path
	}
	if name, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return name, path
	}
	return DefaultSource, path
}

// ReadRows resolves the parser for a file argument and parses it
func ReadRows(source, fileArg string) ([]Row, error) {
	format, path := ResolveSource(source, fileArg)
	p, err := GetParser(format)
	if err != nil {
		return nil, err
	}
	rows, err := p.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", path, format, err)
	}
	return rows, nil
}
