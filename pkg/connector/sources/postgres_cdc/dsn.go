package postgres_cdc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lib/pq"
)

var sslModes = map[string]bool{
	"disable": true, "allow": true, "prefer": true,
	"require": true, "verify-ca": true, "verify-full": true,
}

// checkDSN validates the syntax of a libpq connection string or URL. Unlike
// pgx.ParseConfig it never looks at certificate, password or service files.
func checkDSN(dsn string) (map[string]string, error) {
	kv := dsn
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		var err error
		if kv, err = pq.ParseURL(dsn); err != nil {
			return nil, err
		}
	}

	settings, err := parseKeywordValue(kv)
	if err != nil {
		return nil, err
	}
	if ports, ok := settings["port"]; ok {
		for _, p := range strings.Split(ports, ",") {
			if n, err := strconv.ParseUint(p, 10, 16); err != nil || n == 0 {
				return nil, fmt.Errorf("invalid port %q", p)
			}
		}
	}
	if mode, ok := settings["sslmode"]; ok && !sslModes[mode] {
		return nil, fmt.Errorf("invalid sslmode %q", mode)
	}
	return settings, nil
}

// parseKeywordValue splits "key=value key='quoted value'" pairs following
// libpq quoting rules.
func parseKeywordValue(s string) (map[string]string, error) {
	settings := make(map[string]string)
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return settings, nil
		}

		eq := strings.IndexRune(s, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("expected key=value near %q", s)
		}
		key := strings.TrimSpace(s[:eq])
		if key == "" || strings.ContainsFunc(key, unicode.IsSpace) {
			return nil, fmt.Errorf("invalid key %q", s[:eq])
		}
		s = strings.TrimLeftFunc(s[eq+1:], unicode.IsSpace)

		var value strings.Builder
		quoted := strings.HasPrefix(s, "'")
		if quoted {
			s = s[1:]
		}
		closed := !quoted
		i := 0
		for ; i < len(s); i++ {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				i++
				value.WriteByte(s[i])
				continue
			}
			if quoted && c == '\'' {
				closed = true
				i++
				break
			}
			if !quoted && unicode.IsSpace(rune(c)) {
				break
			}
			value.WriteByte(c)
		}
		if !closed {
			return nil, fmt.Errorf("unterminated quoted value for key %q", key)
		}
		settings[key] = value.String()
		s = s[i:]
	}
}
