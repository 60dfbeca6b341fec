package mat

import "errors"

// Errors returned or panicked on by the types in this package. Following
// gonum.org/v1/gonum/mat, contract violations (shape mismatches) panic
// with one of these sentinels rather than returning an error, since a
// caller cannot sensibly recover from a malformed linear-algebra call.
var (
	ErrShape    = errors.New("mat: dimension mismatch")
	ErrRowAccess = errors.New("mat: row index out of range")
	ErrColAccess = errors.New("mat: column index out of range")
	ErrSquare    = errors.New("mat: expect square matrix")
)

// Matrix is the basic matrix interface type.
type Matrix interface {
	// Dims returns the dimensions of the matrix.
	Dims() (r, c int)
	// At returns the value at row i, column j.
	At(i, j int) float64
}

// Symmetric represents a symmetric matrix where only the upper or lower
// triangle is guaranteed to be meaningful to a caller and At(i,j) always
// equals At(j,i).
type Symmetric interface {
	Matrix
	// SymmetricDim returns the number of rows/columns in the matrix.
	SymmetricDim() int
}

// Dense is a dense, column-major matrix of float64 values.
type Dense struct {
	rows, cols, stride int
	data               []float64
}

// NewDense creates a new Dense matrix with r rows and c columns. If data
// is non-nil it must hold r*c elements in row-major order (the natural
// order for literal construction); it is copied into the receiver's
// column-major backing store. If data is nil, a new zero-initialized
// matrix is allocated.
func NewDense(r, c int, data []float64) *Dense {
	if r <= 0 || c <= 0 {
		panic("mat: non-positive dimension")
	}
	d := &Dense{rows: r, cols: c, stride: r, data: make([]float64, r*c)}
	if data != nil {
		if len(data) != r*c {
			panic(ErrShape)
		}
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				d.data[j*d.stride+i] = data[i*c+j]
			}
		}
	}
	return d
}

// Dims returns the number of rows and columns of the matrix.
func (d *Dense) Dims() (int, int) { return d.rows, d.cols }

// At returns the value at row i, column j.
func (d *Dense) At(i, j int) float64 {
	if i < 0 || i >= d.rows {
		panic(ErrRowAccess)
	}
	if j < 0 || j >= d.cols {
		panic(ErrColAccess)
	}
	return d.data[j*d.stride+i]
}

// Set sets the value at row i, column j to v.
func (d *Dense) Set(i, j int, v float64) {
	if i < 0 || i >= d.rows {
		panic(ErrRowAccess)
	}
	if j < 0 || j >= d.cols {
		panic(ErrColAccess)
	}
	d.data[j*d.stride+i] = v
}

// RawColumn returns a slice viewing column j of the matrix.
func (d *Dense) RawColumn(j int) []float64 {
	return d.data[j*d.stride : j*d.stride+d.rows]
}

// Stride returns the column stride of the backing storage.
func (d *Dense) Stride() int { return d.stride }

// Copy copies the values of src into the receiver, which must have the
// same dimensions.
func (d *Dense) Copy(src Matrix) {
	r, c := src.Dims()
	if r != d.rows || c != d.cols {
		panic(ErrShape)
	}
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			d.data[j*d.stride+i] = src.At(i, j)
		}
	}
}

// Scale multiplies every element of the receiver by f.
func (d *Dense) Scale(f float64) {
	for j := 0; j < d.cols; j++ {
		col := d.RawColumn(j)
		for i := range col {
			col[i] *= f
		}
	}
}

// T returns the transpose of the matrix as a view; the returned Matrix
// shares storage with the receiver.
func (d *Dense) T() Matrix { return transpose{d} }

type transpose struct{ m *Dense }

func (t transpose) Dims() (int, int) {
	r, c := t.m.Dims()
	return c, r
}

func (t transpose) At(i, j int) float64 { return t.m.At(j, i) }

// SymDense wraps a *Dense known by its caller to be symmetric, giving it
// the Symmetric interface without copying. Only the stored triangle a
// caller chooses to populate need be meaningful; At still reads through
// to the underlying Dense exactly as given, so a SymDense built over an
// asymmetric Dense is a caller error, not something this type detects.
type SymDense struct{ *Dense }

// NewSymDense wraps d, which must be square, as a SymDense.
func NewSymDense(d *Dense) SymDense {
	r, c := d.Dims()
	if r != c {
		panic(ErrSquare)
	}
	return SymDense{d}
}

// SymmetricDim returns the number of rows/columns in the matrix.
func (s SymDense) SymmetricDim() int { return s.rows }

// VecDense represents a column vector backed directly by a []float64,
// rather than gonum's blas64.Vector-with-increment: this package has no
// BLAS binding to route a non-unit-stride vector through, so the
// simplification collapses to the Inc-always-1 case of the upstream
// type.
type VecDense struct {
	data []float64
}

// NewVecDense creates a new VecDense of length n. If data == nil, a new
// slice is allocated for the backing slice. If len(data) == n, data is
// used as the backing slice, and changes to the elements of the
// returned VecDense will be reflected in data. If neither of these is
// true, NewVecDense panics.
func NewVecDense(n int, data []float64) *VecDense {
	if len(data) != n && data != nil {
		panic(ErrShape)
	}
	if data == nil {
		data = make([]float64, n)
	}
	return &VecDense{data: data}
}

// Len returns the length of the vector.
func (v *VecDense) Len() int { return len(v.data) }

// AtVec returns the i-th element of the vector.
func (v *VecDense) AtVec(i int) float64 { return v.data[i] }

// SetVec sets the i-th element of the vector to f.
func (v *VecDense) SetVec(i int, f float64) { v.data[i] = f }

// RawVector returns the backing slice of the vector.
func (v *VecDense) RawVector() []float64 { return v.data }

// CopyVec makes a copy of the elements of src into the receiver.
func (v *VecDense) CopyVec(src *VecDense) {
	if len(src.data) != len(v.data) {
		panic(ErrShape)
	}
	copy(v.data, src.data)
}

// AddScaledVec adds the vectors a and alpha*b, placing the result in
// the receiver.
func (v *VecDense) AddScaledVec(a *VecDense, alpha float64, b *VecDense) {
	if len(a.data) != len(v.data) || len(b.data) != len(v.data) {
		panic(ErrShape)
	}
	for i := range v.data {
		v.data[i] = a.data[i] + alpha*b.data[i]
	}
}
