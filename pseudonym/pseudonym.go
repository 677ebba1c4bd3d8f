package pseudonym

import "sync"

// Field names the identifier fields subject to pseudonymization. The set is
// fixed: only object keys matching one of these names are ever rewritten,
// regardless of how identifier-like a value under some other key looks.
type Field string

// Identifier fields as they appear in upstream JSON payloads.
const (
	FieldSystemID  Field = "systemid"
	FieldStorageID Field = "storageid"
	FieldOwner     Field = "owner"
	FieldIndexFile Field = "indexfile"
	FieldGroup     Field = "group"
	FieldRandomID  Field = "randomid"
	FieldTarget    Field = "target"
)

// Fields lists every pseudonymized field name.
var Fields = []Field{
	FieldSystemID,
	FieldStorageID,
	FieldOwner,
	FieldIndexFile,
	FieldGroup,
	FieldRandomID,
	FieldTarget,
}

// table is one field's forward/reverse pair. The mutex makes the
// check-then-insert in assign atomic so two concurrent callers can never
// allocate different integers for the same raw value.
type table struct {
	mu      sync.Mutex
	forward map[string]int
	reverse map[int]string
	next    int
}

// Registry holds one table per identifier field. It is created empty,
// grows only, and is safe for concurrent use.
type Registry struct {
	tables map[Field]*table
}

// NewRegistry creates an empty registry covering the fixed field set.
func NewRegistry() *Registry {
	tables := make(map[Field]*table, len(Fields))
	for _, f := range Fields {
		tables[f] = &table{
			forward: make(map[string]int),
			reverse: make(map[int]string),
			next:    1,
		}
	}
	return &Registry{tables: tables}
}

// Assign returns the integer for raw under field, allocating the field's
// next counter value on first sight. Idempotent: the same raw value always
// yields the same integer. Unknown fields return 0.
func (r *Registry) Assign(field Field, raw string) int {
	t, ok := r.tables[field]
	if !ok {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if n, seen := t.forward[raw]; seen {
		return n
	}
	n := t.next
	t.next++
	t.forward[raw] = n
	t.reverse[n] = raw
	return n
}

// Resolve recovers the raw identifier previously assigned integer n under
// field. The second return is false when no such assignment exists; that
// is the caller's error to surface, not a registry fault.
func (r *Registry) Resolve(field Field, n int) (string, bool) {
	t, ok := r.tables[field]
	if !ok {
		return "", false
	}

	t.mu.Lock()
	raw, seen := t.reverse[n]
	t.mu.Unlock()
	return raw, seen
}

// Normalize walks a JSON-like tree and returns a copy in which every raw
// string value under a pseudonymized key has been replaced by its assigned
// integer. The input is never mutated.
func (r *Registry) Normalize(tree any) any {
	switch v := tree.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if raw, ok := value.(string); ok && r.isField(key) {
				out[key] = r.Assign(Field(key), raw)
				continue
			}
			out[key] = r.Normalize(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = r.Normalize(item)
		}
		return out
	default:
		return tree
	}
}

// Denormalize is the inverse walk: integers under pseudonymized keys are
// replaced by their raw values. An integer with no reverse entry is left
// unchanged rather than treated as an error.
func (r *Registry) Denormalize(tree any) any {
	switch v := tree.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, value := range v {
			if n, ok := asInt(value); ok && r.isField(key) {
				if raw, seen := r.Resolve(Field(key), n); seen {
					out[key] = raw
					continue
				}
			}
			out[key] = r.Denormalize(value)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = r.Denormalize(item)
		}
		return out
	default:
		return tree
	}
}

func (r *Registry) isField(key string) bool {
	_, ok := r.tables[Field(key)]
	return ok
}

// asInt accepts the integer shapes a pseudonymized value takes after a
// round trip through encoding/json (float64) or direct assignment (int).
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
