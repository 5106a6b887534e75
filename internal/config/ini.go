package config

import (
	"bufio"
	"io"
	"strings"
)

// readINISection returns the keys of one section of an INI file. Keys are
// lowercased, values trimmed; indented lines continue the previous value.
func readINISection(r io.Reader, name string) (map[string]string, bool, error) {
	var (
		values  = map[string]string{}
		found   bool
		inside  bool
		lastKey string
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";"):
			continue
		case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
			inside = strings.TrimSpace(line[1:len(line)-1]) == name
			found = found || inside
			lastKey = ""
			continue
		case !inside:
			continue
		case raw[0] == ' ' || raw[0] == '\t':
			if lastKey != "" {
				values[lastKey] = strings.TrimSpace(values[lastKey] + "\n" + line)
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if k, v, colon := strings.Cut(line, ":"); colon && (!ok || len(k) < len(key)) {
			key, value, ok = k, v, true
		}
		if !ok {
			key, value = line, ""
		}
		lastKey = strings.ToLower(strings.TrimSpace(key))
		values[lastKey] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, false, err
	}
	return values, found, nil
}
