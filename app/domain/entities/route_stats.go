package entities

// RouteStats holds accumulated traffic counters for a single route prefix.
type RouteStats struct {
	Prefix             string `json:"prefix"`
	RequestCount       int    `json:"request_count"`
	UpstreamErrorCount int    `json:"upstream_error_count"`
	TimeoutCount       int    `json:"timeout_count"`
	LastStatusCode     int    `json:"last_status_code"`
}

// RouteOutcome describes how a single forwarded request finished.
type RouteOutcome struct {
	StatusCode    int
	UpstreamError bool
	Timeout       bool
}
