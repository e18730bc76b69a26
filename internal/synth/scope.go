package synth

import (
	"sort"
	"strings"
	"sync"
)

// Scope is the global variable scope the synthesizer writes into. In a
// browser this is the document root's style; here it is usually a RootScope.
type Scope interface {
	SetProperty(name, value string)
	RemoveProperty(name string)
}

// RootScope is an in-memory, concurrency-safe Scope.
type RootScope struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewRootScope returns an empty scope.
func NewRootScope() *RootScope {
	return &RootScope{vars: make(map[string]string)}
}

func (r *RootScope) SetProperty(name, value string) {
	r.mu.Lock()
	r.vars[name] = value
	r.mu.Unlock()
}

func (r *RootScope) RemoveProperty(name string) {
	r.mu.Lock()
	delete(r.vars, name)
	r.mu.Unlock()
}

// Get returns the value of name and whether it is set.
func (r *RootScope) Get(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vars[name]
	return v, ok
}

// Snapshot returns a copy of every variable currently set.
func (r *RootScope) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

// Len returns the number of variables set.
func (r *RootScope) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vars)
}

// CSS renders the scope as a :root block with names sorted.
func (r *RootScope) CSS() string {
	snap := r.Snapshot()
	names := make([]string, 0, len(snap))
	for k := range snap {
		names = append(names, k)
	}
	sort.Strings(names)

	vars := make([]Variable, len(names))
	for i, n := range names {
		vars[i] = Variable{Name: n, Value: snap[n]}
	}
	return RenderCSS(vars)
}

// RenderCSS renders vars, in order, as a :root rule.
func RenderCSS(vars []Variable) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, v := range vars {
		b.WriteString("  ")
		b.WriteString(v.Name)
		b.WriteString(": ")
		b.WriteString(v.Value)
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}
