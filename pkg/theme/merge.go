package theme

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Patch is a partial, JSON-shaped document: nested objects are
// map[string]any and leaves are strings, bools and numbers. A nil value under
// content.<id>, styles.<id> or a style property deletes that entry, and so
// does an empty string given for a style property.
type Patch map[string]any

// Rejection records one patch leaf that was dropped because it did not fit
// the document schema. The prior value at Path is kept.
type Rejection struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (r Rejection) String() string {
	return r.Path + ": " + r.Reason
}

// Merge applies patch to current without discarding unspecified branches.
// Objects merge field by field, the content and styles maps merge key by key,
// and each element style merges property by property. Leaves of the wrong
// shape are skipped and reported; the rest of the patch still applies.
func Merge(current Settings, patch Patch) (Settings, []Rejection) {
	base, err := toMap(current)
	if err != nil {
		return current.Clone(), []Rejection{{Reason: "encode current document: " + err.Error()}}
	}

	m := &merger{}
	m.object(base, patch, "", documentShape())

	var out Settings
	if err := fromMap(base, &out); err != nil {
		return current.Clone(), append(m.rejections, Rejection{Reason: "decode merged document: " + err.Error()})
	}
	if out.Content == nil {
		out.Content = map[string]string{}
	}
	if out.Styles == nil {
		out.Styles = map[string]ElementStyle{}
	}
	for id, st := range out.Styles {
		if st.IsZero() {
			delete(out.Styles, id)
		}
	}
	return out, m.rejections
}

// Normalize fills every leaf patch leaves out from Default.
func Normalize(patch Patch) (Settings, []Rejection) {
	return Merge(Default(), patch)
}

// ToPatch converts a typed value (Settings, ElementStyle, any JSON-encodable
// struct) into its Patch form. Empty omitempty fields are not included.
func ToPatch(v any) (Patch, error) {
	m, err := toMap(v)
	if err != nil {
		return nil, err
	}
	return Patch(m), nil
}

type kind int

const (
	kindString kind = iota
	kindBool
	kindNumber
	kindObject
)

func (k kind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindBool:
		return "boolean"
	case kindNumber:
		return "number"
	default:
		return "object"
	}
}

// shape describes one node of the document schema. Objects have either fixed
// fields or a free-key element shape (the content and styles maps).
type shape struct {
	kind     kind
	fields   map[string]*shape
	elem     *shape
	nullable bool
	check    func(v any) string

	// blankDeletes makes an empty string clear a field, as null does.
	blankDeletes bool
}

var documentShape = sync.OnceValue(func() *shape {
	root := shapeOf(reflect.TypeFor[Settings]())

	banner := root.fields["banner"]
	banner.fields["type"].check = func(v any) string {
		switch MediaKind(v.(string)) {
		case MediaImage, MediaVideo:
			return ""
		}
		return fmt.Sprintf("unknown media kind %q", v)
	}
	banner.fields["overlayOpacity"].check = unitInterval
	style := root.fields["styles"].elem
	style.fields["opacity"].check = unitInterval
	style.blankDeletes = true

	return root
})

func unitInterval(v any) string {
	f := v.(float64)
	if f < 0 || f > 1 {
		return fmt.Sprintf("%v is outside [0, 1]", f)
	}
	return ""
}

func shapeOf(t reflect.Type) *shape {
	switch t.Kind() {
	case reflect.Pointer:
		s := shapeOf(t.Elem())
		s.nullable = true
		return s
	case reflect.String:
		return &shape{kind: kindString}
	case reflect.Bool:
		return &shape{kind: kindBool}
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &shape{kind: kindNumber}
	case reflect.Map:
		return &shape{kind: kindObject, elem: shapeOf(t.Elem())}
	case reflect.Struct:
		s := &shape{kind: kindObject, fields: make(map[string]*shape, t.NumField())}
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			fs := shapeOf(f.Type)
			if strings.Contains(opts, "omitempty") {
				fs.nullable = true
			}
			s.fields[name] = fs
		}
		return s
	}
	panic("theme: unsupported settings field type " + t.String())
}

type merger struct {
	rejections []Rejection
}

func (m *merger) reject(path, reason string) {
	m.rejections = append(m.rejections, Rejection{Path: path, Reason: reason})
}

func (m *merger) object(dst, src map[string]any, path string, sh *shape) {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := src[key]
		p := joinPath(path, key)

		var fs *shape
		if sh.elem != nil {
			if key == "" {
				m.reject(p, "empty key")
				continue
			}
			if val == nil {
				delete(dst, key)
				continue
			}
			fs = sh.elem
		} else {
			var ok bool
			fs, ok = sh.fields[key]
			if !ok {
				m.reject(p, "unknown field")
				continue
			}
			if val == nil {
				if fs.nullable {
					delete(dst, key)
				} else {
					m.reject(p, "required field cannot be null")
				}
				continue
			}
		}

		if fs.kind == kindObject {
			obj, ok := asObject(val)
			if !ok {
				m.reject(p, "expected object, got "+describe(val))
				continue
			}
			child, _ := dst[key].(map[string]any)
			if child == nil {
				child = map[string]any{}
			}
			m.object(child, obj, p, fs)
			if sh.elem != nil && len(child) == 0 {
				delete(dst, key)
			} else {
				dst[key] = child
			}
			continue
		}

		v, ok := coerce(val, fs.kind)
		if !ok {
			m.reject(p, "expected "+fs.kind.String()+", got "+describe(val))
			continue
		}
		if f, isNum := v.(float64); isNum && (math.IsNaN(f) || math.IsInf(f, 0)) {
			m.reject(p, fmt.Sprintf("%v is not a finite number", f))
			continue
		}
		if sh.blankDeletes && v == "" {
			delete(dst, key)
			continue
		}
		if fs.check != nil {
			if reason := fs.check(v); reason != "" {
				m.reject(p, reason)
				continue
			}
		}
		dst[key] = v
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case Patch:
		return o, true
	}
	return nil, false
}

func coerce(v any, k kind) (any, bool) {
	switch k {
	case kindString:
		s, ok := v.(string)
		return s, ok
	case kindBool:
		b, ok := v.(bool)
		return b, ok
	case kindNumber:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		case int32:
			return float64(n), true
		case int64:
			return float64(n), true
		case json.Number:
			f, err := n.Float64()
			return f, err == nil
		}
	}
	return nil, false
}

func describe(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case map[string]any, Patch:
		return "object"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func fromMap(m map[string]any, target any) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
