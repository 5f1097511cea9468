package database

import (
	"net/url"
	"strings"
)

// normalizeDSN applies sslMode to a connection string that does not pick one
// itself. Both URL and key=value forms are accepted; anything unparsable is
// returned as-is so the driver can report the problem.
func normalizeDSN(raw, sslMode string) string {
	raw = strings.TrimSpace(raw)
	sslMode = strings.TrimSpace(sslMode)
	if raw == "" || sslMode == "" {
		return raw
	}

	if isURLDSN(raw) {
		parsed, err := url.Parse(raw)
		if err != nil || parsed == nil {
			return raw
		}

		query := parsed.Query()
		if query.Get("sslmode") == "" {
			query.Set("sslmode", sslMode)
			parsed.RawQuery = query.Encode()
		}

		return parsed.String()
	}

	for _, token := range strings.Fields(raw) {
		if strings.HasPrefix(token, "sslmode=") {
			return raw
		}
	}

	return raw + " sslmode=" + sslMode
}

func dbNameFromDSN(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isURLDSN(trimmed) {
		parsed, err := url.Parse(trimmed)
		if err == nil && parsed != nil {
			return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		}
		return ""
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.TrimSpace(strings.TrimPrefix(token, "dbname="))
		name = strings.Trim(name, `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}

// hostFromDSN is used for log lines; credentials never leave this function.
func hostFromDSN(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if isURLDSN(trimmed) {
		parsed, err := url.Parse(trimmed)
		if err == nil && parsed != nil {
			return parsed.Host
		}
		return ""
	}

	for _, token := range strings.Fields(trimmed) {
		if strings.HasPrefix(token, "host=") {
			return strings.Trim(strings.TrimPrefix(token, "host="), `"'`)
		}
	}

	return ""
}

func isURLDSN(raw string) bool {
	return strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://")
}
