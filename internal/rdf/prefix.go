package rdf

import (
	"sort"
	"strings"
)

// PrefixMapping maps short prefixes to namespace IRIs.
// Keys are unique; the empty string is the default prefix.
type PrefixMapping map[string]string

// Set records a prefix, replacing any earlier namespace for it.
func (m PrefixMapping) Set(prefix, namespace string) {
	m[prefix] = namespace
}

// Merge copies every entry of other into m. Entries in other win.
func (m PrefixMapping) Merge(other PrefixMapping) {
	for p, ns := range other {
		m[p] = ns
	}
}

// Clone returns an independent copy. A nil mapping clones to an empty one.
func (m PrefixMapping) Clone() PrefixMapping {
	out := make(PrefixMapping, len(m))
	for p, ns := range m {
		out[p] = ns
	}
	return out
}

// Prefixes returns the prefixes sorted for deterministic iteration.
func (m PrefixMapping) Prefixes() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Expand resolves a prefixed name. ok is false when the prefix is unknown.
func (m PrefixMapping) Expand(pname string) (IRI, bool) {
	prefix, local, found := strings.Cut(pname, ":")
	if !found {
		return "", false
	}
	ns, ok := m[prefix]
	if !ok {
		return "", false
	}
	return IRI(ns + local), true
}

// Compact shortens an identifier to prefix:localname when a namespace in
// the mapping is a prefix of it. The longest matching namespace wins; ties
// go to the alphabetically first prefix. Identifiers that are already in
// prefix:localname form for a known prefix are returned unchanged, which
// makes Compact idempotent.
func (m PrefixMapping) Compact(identifier string) string {
	if len(m) == 0 {
		return identifier
	}
	if prefix, _, found := strings.Cut(identifier, ":"); found {
		if _, known := m[prefix]; known && !strings.HasPrefix(identifier, m[prefix]) {
			return identifier
		}
	}
	bestPrefix, bestNS := "", ""
	for _, p := range m.Prefixes() {
		ns := m[p]
		if ns == "" || !strings.HasPrefix(identifier, ns) {
			continue
		}
		if len(ns) > len(bestNS) {
			bestPrefix, bestNS = p, ns
		}
	}
	if bestNS == "" {
		return identifier
	}
	return bestPrefix + ":" + identifier[len(bestNS):]
}
