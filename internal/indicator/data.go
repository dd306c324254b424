package indicator

import "github.com/rxtech-lab/dionysus/pkg/errors"

// Shape tells which field of Data is set.
type Shape string

const (
	ShapeScalar Shape = "scalar"
	ShapeVector Shape = "vector"
	ShapeMatrix Shape = "matrix"
)

// Data is the output of an indicator: a scalar, a vector or a matrix of series.
type Data struct {
	Shape  Shape
	Scalar float64
	Vector []float64
	Matrix [][]float64
}

// Scalar wraps a single value.
func Scalar(v float64) Data {
	return Data{Shape: ShapeScalar, Scalar: v}
}

// Vector wraps one series.
func Vector(v []float64) Data {
	return Data{Shape: ShapeVector, Vector: v}
}

// Matrix wraps several series, one per row.
func Matrix(m [][]float64) Data {
	return Data{Shape: ShapeMatrix, Matrix: m}
}

// AsScalar returns the scalar value or an error when the shape differs.
func (d Data) AsScalar() (float64, error) {
	if d.Shape != ShapeScalar {
		return 0, d.unexpected(ShapeScalar)
	}

	return d.Scalar, nil
}

// AsVector returns the series or an error when the shape differs.
func (d Data) AsVector() ([]float64, error) {
	if d.Shape != ShapeVector {
		return nil, d.unexpected(ShapeVector)
	}

	return d.Vector, nil
}

// AsMatrix returns the rows or an error when the shape differs.
func (d Data) AsMatrix() ([][]float64, error) {
	if d.Shape != ShapeMatrix {
		return nil, d.unexpected(ShapeMatrix)
	}

	return d.Matrix, nil
}

// Rows returns the number of series held by the data.
func (d Data) Rows() int {
	switch d.Shape {
	case ShapeScalar, ShapeVector:
		return 1
	case ShapeMatrix:
		return len(d.Matrix)
	default:
		return 0
	}
}

func (d Data) unexpected(expected Shape) error {
	return errors.Newf(errors.ErrCodeUnexpectedShape, "expected %s indicator data, got %q", expected, d.Shape)
}
