package property

import (
	"sort"
	"strings"
)

// cacheKey computes the deterministic memoisation key for one
// (property, symbol, binding) triple: propertyName ⊕ symbol ⊕
// sorted((entName, entityId)). Unbound entries contribute entName with
// an empty id, so blank and partially-bound instances hash distinctly
// from fully-bound ones.
func cacheKey(propertyName, symbol string, binding map[string]*ConcreteEntity) string {
	names := make([]string, 0, len(binding))
	for name := range binding {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(propertyName)
	b.WriteByte(0)
	b.WriteString(symbol)
	for _, name := range names {
		b.WriteByte(0)
		b.WriteString(name)
		b.WriteByte('=')
		if ce := binding[name]; ce != nil {
			b.WriteString(ce.EntityID)
		}
	}
	return b.String()
}
