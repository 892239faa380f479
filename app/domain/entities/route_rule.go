package entities

import "fmt"

// RouteRule maps an inbound path prefix to an upstream service.
// Rules are checked in declaration order; the first matching prefix wins,
// so more specific prefixes must be listed before overlapping shorter ones.
type RouteRule struct {
	Prefix       string `yaml:"prefix"`
	StripPrefix  string `yaml:"strip_prefix"`
	UpstreamHost string `yaml:"upstream_host"`
	UpstreamPort int    `yaml:"upstream_port"`
}

// UpstreamAddr returns the host:port the rule forwards to.
func (r RouteRule) UpstreamAddr() string {
	return fmt.Sprintf("%s:%d", r.UpstreamHost, r.UpstreamPort)
}
