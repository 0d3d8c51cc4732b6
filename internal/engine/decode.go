package engine

import (
	"encoding/json"
	"fmt"
	"math"

	"fortio.org/safecast"

	"jsreport/internal/lint"
)

// Decode converts the engine's raw verdict into a lint.Result.
//
// rawErrors is expected to be a list whose entries are objects with numeric
// line/character and a string reason. Anything else in an entry (null, a
// string, a missing or fractional position, no reason) becomes the fatal
// sentinel, so one broken entry never hides the rest of the report.
//
// rawImplied may be an object keyed by name, a list of names, or a list of
// {name: ...} objects.
func Decode(ok bool, rawErrors, rawImplied any) lint.Result {
	if ok {
		return lint.Clean()
	}
	res := lint.Result{}
	if list, isList := rawErrors.([]any); isList {
		res.Errors = make([]*lint.Error, 0, len(list))
		for _, raw := range list {
			res.Errors = append(res.Errors, decodeError(raw))
		}
	}
	res.Implied = decodeImplied(rawImplied)
	return res
}

func decodeError(raw any) *lint.Error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	reason, ok := obj["reason"].(string)
	if !ok || reason == "" {
		return nil
	}
	line, ok := toInt(obj["line"])
	if !ok {
		return nil
	}
	char, ok := toInt(obj["character"])
	if !ok {
		return nil
	}
	return &lint.Error{Line: line, Character: char, Reason: reason}
}

func decodeImplied(raw any) map[string]bool {
	out := make(map[string]bool)
	switch v := raw.(type) {
	case map[string]any:
		for name, marker := range v {
			if truthy(marker) {
				out[name] = true
			}
		}
	case []any:
		for _, item := range v {
			switch it := item.(type) {
			case string:
				if it != "" {
					out[it] = true
				}
			case map[string]any:
				if name, ok := it["name"].(string); ok && name != "" {
					out[name] = true
				}
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// truthy follows JavaScript truthiness for the values an engine can export.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int64:
		return x != 0
	case int:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	}
	return true
}

const maxPosition = math.MaxInt32

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return boundPosition(int64(x))
	case int64:
		return boundPosition(x)
	case int32:
		return int(x), true
	case float64:
		return floatToInt(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return toInt(n)
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

// boundPosition rejects positions no engine could report, so the 1-based
// shift in the reporter cannot overflow.
func boundPosition(x int64) (int, bool) {
	if x > maxPosition || x < -maxPosition {
		return 0, false
	}
	n, err := safecast.Conv[int](x)
	return n, err == nil
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > maxPosition || f < -maxPosition {
		return 0, false
	}
	n, err := safecast.Conv[int](int64(f))
	return n, err == nil
}

// decodeJSON parses the single document printed by the driver script.
func decodeJSON(data []byte) (lint.Result, error) {
	var payload struct {
		OK      bool `json:"ok"`
		Errors  any  `json:"errors"`
		Implied any  `json:"implied"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return lint.Result{}, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	return Decode(payload.OK, payload.Errors, payload.Implied), nil
}
