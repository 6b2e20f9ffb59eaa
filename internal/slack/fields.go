package slack

import (
	"fmt"
	"reflect"
	"sort"
)

const resultFieldTitle = "return"

type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Fields is an insertion-ordered set of labelled values. Setting an existing
// label replaces its value in place. The zero value is ready to use.
type Fields struct {
	list []Field
}

func (f *Fields) Set(title string, value any) {
	v := fmt.Sprint(value)
	for i := range f.list {
		if f.list[i].Title == title {
			f.list[i].Value = v
			return
		}
	}
	f.list = append(f.list, Field{Title: title, Value: v, Short: true})
}

// Add appends a field without replacing an earlier one with the same title.
func (f *Fields) Add(field Field) {
	f.list = append(f.list, field)
}

func (f *Fields) Len() int {
	return len(f.list)
}

func (f *Fields) Reset() {
	f.list = nil
}

// List returns a copy of the fields in insertion order.
func (f *Fields) List() []Field {
	if len(f.list) == 0 {
		return nil
	}
	out := make([]Field, len(f.list))
	copy(out, f.list)
	return out
}

// NormalizeFields turns v into attachment fields. Ordered inputs keep their
// order; Go maps have none, so their entries are sorted by key. Any other
// value becomes a single "return" field.
func NormalizeFields(v any) []Field {
	switch x := v.(type) {
	case nil:
		return nil
	case Field:
		return []Field{x}
	case []Field:
		if len(x) == 0 {
			return nil
		}
		out := make([]Field, len(x))
		copy(out, x)
		return out
	case *Fields:
		if x == nil {
			return nil
		}
		return x.List()
	case Fields:
		return x.List()
	case map[string]string:
		return mapFields(x)
	case map[string]any:
		return mapFields(x)
	default:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Map {
			return reflectMapFields(rv)
		}
		return []Field{{Title: resultFieldTitle, Value: fmt.Sprint(v), Short: true}}
	}
}

func mapFields[V any](m map[string]V) []Field {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Title: k, Value: fmt.Sprint(m[k]), Short: true})
	}
	return out
}

// reflectMapFields handles maps of any key and value type. Keys are rendered
// with fmt.Sprint and sorted as strings.
func reflectMapFields(rv reflect.Value) []Field {
	if rv.Len() == 0 {
		return nil
	}
	out := make([]Field, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out = append(out, Field{
			Title: fmt.Sprint(iter.Key().Interface()),
			Value: fmt.Sprint(iter.Value().Interface()),
			Short: true,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}
