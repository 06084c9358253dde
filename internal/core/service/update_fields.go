package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

// updateField binds an accepted request key to its storage path and a coerce
// func that validates the JSON-decoded value and normalizes it into the type
// the document stores. A bad value must never reach $set: a mistyped field
// would corrupt the document and break every later decode of it.
type updateField struct {
	path   string
	coerce func(v any) (any, string)
}

// mapUpdateFields translates request keys into storage paths using the given
// whitelists. The first whitelist carrying the key wins; an unmatched key
// fails the whole update with ErrInvalidUpdate, a value that fails its
// field's coercion fails it with a ValidationError.
func mapUpdateFields(updates map[string]any, whitelists ...map[string]updateField) (map[string]any, error) {
	if len(updates) == 0 {
		return nil, domain.NewValidationError("body", "no fields to update")
	}

	fields := make(map[string]any, len(updates)+1)
	for key, value := range updates {
		var field updateField
		found := false
		for _, wl := range whitelists {
			if f, ok := wl[key]; ok {
				field, found = f, true
				break
			}
		}
		if !found {
			return nil, domain.ErrInvalidUpdate
		}
		coerced, problem := field.coerce(value)
		if problem != "" {
			return nil, domain.NewValidationError(key, "%s %s", key, problem)
		}
		fields[field.path] = coerced
	}
	fields["updated_at"] = time.Now().UTC()
	return fields, nil
}

func stringField(path string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		s, ok := v.(string)
		if !ok {
			return nil, "must be a string"
		}
		return s, ""
	}}
}

func enumField(path string, allowed ...string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		s, ok := v.(string)
		if !ok {
			return nil, "must be a string"
		}
		for _, a := range allowed {
			if s == a {
				return s, ""
			}
		}
		return nil, "must be one of: " + strings.Join(allowed, " ")
	}}
}

func intField(path string, min, max int) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		f, ok := asNumber(v)
		if !ok || f != math.Trunc(f) {
			return nil, "must be an integer"
		}
		n := int(f)
		if n < min || n > max {
			return nil, fmt.Sprintf("must be between %d and %d", min, max)
		}
		return n, ""
	}}
}

func numberField(path string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		f, ok := asNumber(v)
		if !ok {
			return nil, "must be a number"
		}
		return f, ""
	}}
}

func positiveField(path string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		f, ok := asNumber(v)
		if !ok || f <= 0 {
			return nil, "must be greater than 0"
		}
		return f, ""
	}}
}

func rangedField(path string, min, max float64) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		f, ok := asNumber(v)
		if !ok || f < min || f > max {
			return nil, fmt.Sprintf("must be between %g and %g", min, max)
		}
		return f, ""
	}}
}

func timeField(path string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		switch t := v.(type) {
		case time.Time:
			return t.UTC(), ""
		case string:
			parsed, err := time.Parse(time.RFC3339, t)
			if err != nil {
				return nil, "must be an RFC 3339 timestamp"
			}
			return parsed.UTC(), ""
		}
		return nil, "must be an RFC 3339 timestamp"
	}}
}

// settingsField re-decodes the raw object strictly into domain.Settings so a
// typo'd preference key fails instead of landing in the document.
func settingsField(path string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, "must be a settings object"
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		var s domain.Settings
		if err := dec.Decode(&s); err != nil {
			return nil, "must be a settings object"
		}
		return s, ""
	}}
}

func measurementsField(path string) updateField {
	return updateField{path: path, coerce: func(v any) (any, string) {
		switch m := v.(type) {
		case map[string]float64:
			return m, ""
		case map[string]any:
			out := make(map[string]float64, len(m))
			for k, raw := range m {
				f, ok := asNumber(raw)
				if !ok {
					return nil, "values must be numbers"
				}
				out[k] = f
			}
			return out, ""
		}
		return nil, "must be an object of numeric measurements"
	}}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
