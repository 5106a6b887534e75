package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// decode reads the known keys of a settings table. Values may be native
// TOML types or strings, as INI files only have strings. Unknown keys are
// ignored.
func decode(raw map[string]any) (Config, error) {
	var cfg Config
	bools := []struct {
		key string
		dst **bool
	}{
		{"fix", &cfg.Fix},
		{"return_zero", &cfg.ReturnZero},
		{"quiet", &cfg.Quiet},
		{"check_doctype", &cfg.CheckDoctype},
		{"code", &cfg.Code},
		{"preserve_attr_whitespace", &cfg.PreserveAttrWhitespace},
	}
	for _, b := range bools {
		v, ok := raw[b.key]
		if !ok {
			continue
		}
		parsed, ok := ParseBool(v)
		if !ok {
			return Config{}, fmt.Errorf("%s: expected a boolean, got %v", b.key, v)
		}
		*b.dst = &parsed
	}

	ints := []struct {
		key string
		dst **int
	}{
		{"tab_width", &cfg.TabWidth},
		{"line_length", &cfg.LineLength},
		{"max_items_per_line", &cfg.MaxItemsPerLine},
	}
	for _, n := range ints {
		v, ok := raw[n.key]
		if !ok {
			continue
		}
		parsed, err := parseInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", n.key, err)
		}
		*n.dst = &parsed
	}

	if v, ok := raw["indentation"]; ok {
		s, ok := v.(string)
		if !ok {
			return Config{}, fmt.Errorf("indentation: expected a string, got %v", v)
		}
		s = strings.TrimSpace(s)
		cfg.Indentation = &s
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{"extra", &cfg.Extra},
		{"ignore", &cfg.Ignore},
	}
	for _, l := range lists {
		v, ok := raw[l.key]
		if !ok {
			continue
		}
		parsed, ok := ParseList(v)
		if !ok {
			return Config{}, fmt.Errorf("%s: expected a list, got %v", l.key, v)
		}
		*l.dst = parsed
	}
	return cfg, nil
}

// ParseBool accepts booleans and the strings 1/true/yes/on and
// 0/false/no/off in any case.
func ParseBool(v any) (bool, bool) {
	switch v := v.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, true
		case "0", "false", "no", "off":
			return false, true
		}
	}
	return false, false
}

func parseInt(v any) (int, error) {
	switch v := v.(type) {
	case int64:
		n, err := safecast.Conv[int](v)
		if err != nil {
			return 0, err
		}
		return n, nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("expected an integer, got %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("expected an integer, got %v", v)
}

// ParseList accepts a list, a JSON array, or a comma or space separated
// string. An empty string or "[]" is an explicit empty list.
func ParseList(v any) ([]string, bool) {
	switch v := v.(type) {
	case []any:
		out := []string{}
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case []string:
		return ParseList(toAny(v))
	case string:
		s := strings.TrimSpace(v)
		var parsed []any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			return ParseList(parsed)
		}
		s = strings.Trim(s, "[]")
		return append([]string{}, strings.Fields(strings.ReplaceAll(s, ",", " "))...), true
	}
	return nil, false
}

func toAny(v []string) []any {
	out := make([]any, len(v))
	for i, s := range v {
		out[i] = s
	}
	return out
}
