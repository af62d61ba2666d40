package wizard

import "strings"

// Tags is an ordered set of free-form labels. Methods return a new slice and never modify
// the receiver, so a captured form keeps its tags.
type Tags []string

// Add appends tag after trimming it. Empty or already present tags are ignored.
func (t Tags) Add(tag string) Tags {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.Contains(tag) {
		return t
	}
	out := make(Tags, len(t), len(t)+1)
	copy(out, t)
	return append(out, tag)
}

func (t Tags) Remove(tag string) Tags {
	out := make(Tags, 0, len(t))
	for _, existing := range t {
		if existing != tag {
			out = append(out, existing)
		}
	}
	return out
}

func (t Tags) Contains(tag string) bool {
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}
	return false
}

// Normalize drops blanks and duplicates, keeping first occurrences in order.
func (t Tags) Normalize() Tags {
	var out Tags
	for _, tag := range t {
		out = out.Add(tag)
	}
	if out == nil {
		return Tags{}
	}
	return out
}
