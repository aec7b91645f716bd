package submission

import (
	"strconv"
	"strings"
)

const (
	// maxListIndex bounds indexes accepted from field names such as items[3].
	maxListIndex = 1000
	// maxListSlots bounds the list slots one payload may allocate across all
	// of its fields.
	maxListSlots = 10000
	// maxNameDepth bounds the segments of a field name.
	maxNameDepth = 16
)

type segment struct {
	key     string
	index   int
	isIndex bool
}

// parseName splits a field name into path segments:
// "rows[1].title" becomes rows, 1, title.
func parseName(name string) []segment {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	var segs []segment
	var current strings.Builder
	flush := func() {
		if current.Len() == 0 {
			return
		}
		segs = append(segs, segment{key: current.String()})
		current.Reset()
	}

	for i := 0; i < len(name); i++ {
		switch ch := name[i]; ch {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(name[i+1:], ']')
			if end < 0 {
				current.WriteString(name[i+1:])
				i = len(name)
				continue
			}
			inner := name[i+1 : i+1+end]
			if idx, err := strconv.Atoi(inner); err == nil && idx >= 0 {
				segs = append(segs, segment{index: idx, isIndex: true})
			} else if inner != "" {
				segs = append(segs, segment{key: inner})
			}
			i += end + 1
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return segs
}

// formatName is the inverse of parseName.
func formatName(segs []segment) string {
	var b strings.Builder
	for _, seg := range segs {
		if seg.isIndex {
			b.WriteString("[" + strconv.Itoa(seg.index) + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.key)
	}
	return b.String()
}

// assign stores value at segs inside container and returns the updated
// container. A repeated plain key collects its values into a list. Growing a
// list spends slots; an assignment that would overspend is dropped and
// container is returned as is.
func assign(container any, segs []segment, value any, collect bool, slots *int) any {
	if len(segs) == 0 {
		return value
	}
	seg := segs[0]

	if seg.isIndex {
		if seg.index > maxListIndex {
			return container
		}
		list, _ := container.([]any)
		if grow := seg.index + 1 - len(list); grow > 0 {
			if grow > *slots {
				return container
			}
			*slots -= grow
			list = append(list, make([]any, grow)...)
		}
		list[seg.index] = assign(list[seg.index], segs[1:], value, collect, slots)
		return list
	}

	m, _ := container.(map[string]any)
	if m == nil {
		m = make(map[string]any)
	}
	if len(segs) == 1 {
		existing, ok := m[seg.key]
		if ok && collect {
			m[seg.key] = appendValue(existing, value)
			return m
		}
		m[seg.key] = value
		return m
	}
	if child := assign(m[seg.key], segs[1:], value, collect, slots); child != nil {
		m[seg.key] = child
	}
	return m
}

func appendValue(existing, value any) any {
	if list, ok := existing.([]any); ok {
		return append(list, value)
	}
	return []any{existing, value}
}

// lookup returns the value stored at segs.
func lookup(container any, segs []segment) (any, bool) {
	current := container
	for _, seg := range segs {
		if seg.isIndex {
			list, ok := current.([]any)
			if !ok || seg.index >= len(list) {
				return nil, false
			}
			current = list[seg.index]
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok := m[seg.key]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

// asList coerces a stored value to a list: nil is empty, a scalar is a
// single-item list.
func asList(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, len(v))
		copy(out, v)
		return out
	default:
		return []any{v}
	}
}

// stripUndefined drops nil map values so JSON Schema sees them as missing.
// Nil list items stay as null to keep positions.
func stripUndefined(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			if item == nil {
				continue
			}
			out[key] = stripUndefined(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stripUndefined(item)
		}
		return out
	default:
		return v
	}
}
