package routing

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/closetly/edge-gateway/app/domain/entities"
)

// Table is an immutable, ordered list of route rules. Matching walks the
// list top to bottom and the first matching prefix wins, so callers must
// list more specific prefixes before overlapping shorter ones.
type Table struct {
	rules []entities.RouteRule
}

// NewTable creates a Table from the given rules. The slice is copied; the
// table is never mutated after construction and is safe for concurrent use.
func NewTable(rules []entities.RouteRule) *Table {
	copied := make([]entities.RouteRule, len(rules))
	copy(copied, rules)
	return &Table{rules: copied}
}

// Match returns the first rule whose prefix matches the given path.
func (t *Table) Match(path string) (entities.RouteRule, bool) {
	for _, rule := range t.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return entities.RouteRule{}, false
}

// Rules returns a copy of the rule list (for status reporting).
func (t *Table) Rules() []entities.RouteRule {
	copied := make([]entities.RouteRule, len(t.rules))
	copy(copied, t.rules)
	return copied
}

// RewritePath computes the outbound path for a rule: the rule's strip
// prefix is removed from the front of the path, an empty remainder becomes
// "/". If the path does not actually start with the strip prefix the path
// is forwarded unchanged.
func RewritePath(path string, rule entities.RouteRule) string {
	if rule.StripPrefix == "" || !strings.HasPrefix(path, rule.StripPrefix) {
		return path
	}
	rewritten := strings.TrimPrefix(path, rule.StripPrefix)
	if rewritten == "" {
		return "/"
	}
	return rewritten
}

// ParseUpstream splits a host:port upstream address from configuration.
func ParseUpstream(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid upstream address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("invalid upstream port in %q", addr)
	}
	return host, port, nil
}

type routesFile struct {
	Routes []entities.RouteRule `yaml:"routes"`
}

// LoadFile reads a YAML routes file and returns the rule list in file
// order. The file replaces the built-in table wholesale.
func LoadFile(path string) ([]entities.RouteRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	var parsed routesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse routes file %s: %w", path, err)
	}
	if len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("routes file %s defines no routes", path)
	}

	for i, rule := range parsed.Routes {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("routes file %s, route %d: %w", path, i, err)
		}
	}
	return parsed.Routes, nil
}

func validateRule(rule entities.RouteRule) error {
	if !strings.HasPrefix(rule.Prefix, "/") {
		return fmt.Errorf("prefix %q must start with /", rule.Prefix)
	}
	if rule.StripPrefix != "" && !strings.HasPrefix(rule.StripPrefix, "/") {
		return fmt.Errorf("strip_prefix %q must start with /", rule.StripPrefix)
	}
	if rule.UpstreamHost == "" {
		return fmt.Errorf("upstream_host is required for prefix %q", rule.Prefix)
	}
	if rule.UpstreamPort < 1 || rule.UpstreamPort > 65535 {
		return fmt.Errorf("upstream_port %d out of range for prefix %q", rule.UpstreamPort, rule.Prefix)
	}
	return nil
}
