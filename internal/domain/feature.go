package domain

import "fmt"

// Schema is a named, fixed-order list of feature names. A Vector is only
// meaningful paired with the schema that produced it; positions are the
// contract, not the names alone.
type Schema struct {
	name     string
	features []string
}

// NewSchema creates a feature schema.
func NewSchema(name string, features []string) Schema {
	fs := make([]string, len(features))
	copy(fs, features)
	return Schema{name: name, features: fs}
}

// Name returns the schema identifier.
func (s Schema) Name() string { return s.name }

// Features returns the ordered feature names.
func (s Schema) Features() []string {
	fs := make([]string, len(s.features))
	copy(fs, s.features)
	return fs
}

// Len returns the number of features.
func (s Schema) Len() int { return len(s.features) }

// Vector is a fixed-length ordered sequence of floats positioned by a Schema.
type Vector struct {
	schema string
	values []float64
}

// NewVector pairs values with the schema they were encoded against.
// The length must match the schema exactly.
func NewVector(schema Schema, values []float64) (Vector, error) {
	if len(values) != schema.Len() {
		return Vector{}, fmt.Errorf("%w: schema %s expects %d features, got %d",
			ErrSchemaMismatch, schema.Name(), schema.Len(), len(values))
	}
	vs := make([]float64, len(values))
	copy(vs, values)
	return Vector{schema: schema.Name(), values: vs}, nil
}

// SchemaName returns the name of the schema this vector was encoded with.
func (v Vector) SchemaName() string { return v.schema }

// Values returns a copy of the ordered feature values.
func (v Vector) Values() []float64 {
	vs := make([]float64, len(v.values))
	copy(vs, v.values)
	return vs
}

// Len returns the vector length.
func (v Vector) Len() int { return len(v.values) }

// CheckSchema verifies the vector was encoded with the given schema.
func (v Vector) CheckSchema(s Schema) error {
	if v.schema != s.Name() || len(v.values) != s.Len() {
		return fmt.Errorf("%w: vector schema %q (len %d), expected %q (len %d)",
			ErrSchemaMismatch, v.schema, len(v.values), s.Name(), s.Len())
	}
	return nil
}
