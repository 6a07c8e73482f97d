// Package dbconn holds the connection-string and query helpers shared by the
// API server and the migration CLI.
package dbconn

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	preparedBinaryParam = "disable_prepared_binary_result"
	maxTracedQuery      = 512
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeURL sets disable_prepared_binary_result=yes unless the URL already
// carries a value for it. Poolers in transaction mode reject binary results
// for prepared statements.
func NormalizeURL(raw string, disablePreparedBinaryResult bool) string {
	raw = strings.TrimSpace(raw)
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get(preparedBinaryParam) != "" {
		return raw
	}
	query.Set(preparedBinaryParam, "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// DatabaseName extracts the database from a URL or a key=value DSN.
func DatabaseName(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}

	for _, token := range strings.Fields(trimmed) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

// Redact masks the password so the URL can be logged.
func Redact(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" {
		return redactDSN(trimmed)
	}
	return parsed.Redacted()
}

func redactDSN(dsn string) string {
	fields := strings.Fields(dsn)
	for i, token := range fields {
		if strings.HasPrefix(token, "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}

// FormatQueryForTrace collapses whitespace and caps the length so the
// provisioning DDL and builder output read as one line in span attributes.
func FormatQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := whitespace.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQuery {
		return normalized
	}
	return normalized[:maxTracedQuery] + "..."
}
