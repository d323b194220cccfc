package argdown

import (
	"fmt"
	"strings"
)

// AnnotationIDsKey is the inline data key linking a proposition to the text
// annotation elements it reconstructs.
const AnnotationIDsKey = "annotation_ids"

// StringList coerces an inline data value into a slice of trimmed strings.
// Scalars inside the list are stringified, so `from: [1, "2"]` yields
// ["1", "2"]. The second return reports whether the value was a list.
func StringList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, strings.TrimSpace(fmt.Sprint(item)))
	}
	return out, true
}

// InferenceFrom extracts the pcs step labels a conclusion is inferred from.
// present reports whether the key exists at all, isList whether its value
// could be read as a list.
func InferenceFrom(data map[string]any, key string) (labels []string, present, isList bool) {
	raw, ok := data[key]
	if !ok {
		return nil, false, false
	}
	labels, isList = StringList(raw)
	return labels, true, isList
}

// AnnotationIDs returns the annotation element ids recorded on a
// proposition, nil when none are present.
func AnnotationIDs(p *Proposition) []string {
	if p == nil || p.Data == nil {
		return nil
	}
	ids, _ := StringList(p.Data[AnnotationIDsKey])
	return ids
}
