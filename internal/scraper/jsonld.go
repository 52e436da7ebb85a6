package scraper

import (
	"encoding/json"
	"strings"
)

// LinkedDataShape tells which shape a JSON-LD block had.
type LinkedDataShape int

const (
	ShapeAbsent LinkedDataShape = iota
	ShapeObject
	ShapeArray
)

// LinkedData is a decoded JSON-LD block. Objects holds the top-level
// object, or the objects of a top-level array, followed by any @graph
// members.
type LinkedData struct {
	Shape   LinkedDataShape
	Objects []map[string]any
}

// DecodeLinkedData tries the object shape, then the array shape. Anything
// else, including malformed JSON, decodes as absent.
func DecodeLinkedData(raw string) LinkedData {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LinkedData{}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil && obj != nil {
		return LinkedData{Shape: ShapeObject, Objects: withGraph([]map[string]any{obj})}
	}

	var arr []any
	if err := json.Unmarshal([]byte(raw), &arr); err == nil && arr != nil {
		return LinkedData{Shape: ShapeArray, Objects: withGraph(objectsOf(arr))}
	}

	return LinkedData{}
}

// DatePublished returns the first non-empty datePublished string.
func (ld LinkedData) DatePublished() (string, bool) {
	for _, o := range ld.Objects {
		if s, ok := o["datePublished"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func withGraph(objs []map[string]any) []map[string]any {
	out := objs
	for _, o := range objs {
		if graph, ok := o["@graph"].([]any); ok {
			out = append(out, objectsOf(graph)...)
		}
	}
	return out
}

func objectsOf(items []any) []map[string]any {
	var out []map[string]any
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
