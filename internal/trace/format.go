package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format is the encoding of trace output.
type Format uint8

const (
	FormatAuto Format = iota // chosen from the output path
	FormatText
	FormatNDJSON
)

// ParseFormat accepts auto, text, ndjson or json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func encodeNDJSON(ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		data = []byte(`{"kind":"failure","name":"trace","detail":"unencodable event"}`)
	}
	return append(data, '\n')
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→",
	KindSpanEnd:   "←",
	KindPoint:     "•",
	KindFailure:   "!",
}

// encodeText renders "[elapsed] mark name (detail) {k=v, ...}", indenting child events.
func encodeText(ev *Event, start time.Time) []byte {
	elapsed := max(ev.Time.Sub(start), 0)
	indent := ""
	if ev.ParentID != 0 {
		indent = "  "
	}
	line := fmt.Sprintf("[%9.3fms] %s%s %s", float64(elapsed)/float64(time.Millisecond), indent, kindMarks[ev.Kind], ev.Name)
	if ev.Detail != "" {
		line += " (" + ev.Detail + ")"
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		line += " {" + strings.Join(pairs, ", ") + "}"
	}
	return []byte(line + "\n")
}
