// Package feature turns extracted fields plus raw text into a fixed-schema
// numeric vector for the classifier. The schema (feature names, order,
// bucket boundaries) is versioned; consumers declare the version they
// expect and a mismatch is fatal, never silently coerced.
package feature

import "sort"

// Vector is a named feature mapping bound to a schema version.
type Vector struct {
	values map[string]float64
	Schema string
}

// NewVector creates an empty vector for the given schema version.
func NewVector(schema string) *Vector {
	return &Vector{
		values: make(map[string]float64),
		Schema: schema,
	}
}

// Set records a feature value.
func (v *Vector) Set(name string, value float64) {
	v.values[name] = value
}

// Get returns a feature value, zero if unset.
func (v *Vector) Get(name string) float64 {
	return v.values[name]
}

// Names returns all feature names in sorted order.
func (v *Vector) Names() []string {
	names := make([]string, 0, len(v.values))
	for name := range v.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of features present.
func (v *Vector) Len() int {
	return len(v.values)
}

// Slice materializes the vector in the given feature order. Names absent
// from the vector contribute zero, so a model's declared feature list
// always produces a slice of matching length.
func (v *Vector) Slice(order []string) []float64 {
	out := make([]float64, len(order))
	for i, name := range order {
		out[i] = v.values[name]
	}
	return out
}
