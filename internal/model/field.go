package model

// Field is an extracted value with its provenance. A missing field is
// represented explicitly rather than with a sentinel value, so downstream
// stages can distinguish "not found" from a legitimate zero.
type Field[T any] struct {
	Value      T
	Source     string
	Confidence float64
	Present    bool
}

// FieldOf builds a present field with the given confidence and the source
// text span it was extracted from.
func FieldOf[T any](value T, confidence float64, source string) Field[T] {
	return Field[T]{
		Value:      value,
		Source:     source,
		Confidence: confidence,
		Present:    true,
	}
}

// MissingField is the absent field: zero value, zero confidence.
func MissingField[T any]() Field[T] {
	return Field[T]{}
}
