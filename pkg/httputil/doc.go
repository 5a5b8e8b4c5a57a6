// Package httputil provides the HTTP client used by network telemetry
// sources, and the retry helper shared with the redis cache.
//
// [Client] performs JSON GET requests with default headers. Transient
// failures (network errors, 5xx and 429 responses) are wrapped in
// [RetryableError] and retried by [Retry] with exponential backoff:
//
//	c := httputil.NewClient(nil, map[string]string{"Accept": "application/json"})
//	var out struct{ Channels []Channel }
//	err := c.GetJSON(ctx, "http://scada.local/api/cur?cnl=101,102", &out)
//
// Other status codes fail at once. A 404 maps to [ErrNotFound].
package httputil
