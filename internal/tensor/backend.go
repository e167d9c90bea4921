package tensor

// Backend defines the interface the symmetry bookkeeping core consumes for
// dense numerics. The core never touches element math directly: every
// rectangular-buffer operation goes through a Backend, and a Backend is free
// to run on whatever device it manages.
//
// Bookkeeping kernels (elementwise ops, permute, reshape, sub-matrix
// selection) panic on misuse: a shape mismatch there is a programming error
// in the caller. The linear-algebra entry points return errors, since e.g.
// singular input to Inverse is a data condition, not a bug.
type Backend interface {
	// Elementwise binary operations over same-shape operands.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Elementwise operations with a scalar operand.
	AddScalar(x *RawTensor, s float64) *RawTensor
	SubScalar(x *RawTensor, s float64) *RawTensor
	MulScalar(x *RawTensor, s float64) *RawTensor
	DivScalar(x *RawTensor, s float64) *RawTensor

	// MatMul performs rank-2 matrix multiplication: (M,K) @ (K,N) -> (M,N).
	MatMul(a, b *RawTensor) *RawTensor

	// TensorDot contracts axesA of a against axesB of b pairwise and returns
	// a tensor whose axes are a's surviving axes (in order) followed by b's.
	// Empty axis lists produce the outer product.
	TensorDot(a, b *RawTensor, axesA, axesB []int) *RawTensor

	// Permute reorders axes and materializes a contiguous result.
	Permute(x *RawTensor, axes []int) *RawTensor

	// Reshape returns a tensor with the same row-major data under a new
	// shape. The element count must match.
	Reshape(x *RawTensor, shape Shape) *RawTensor

	// Diag converts between a rank-1 vector and the equivalent square
	// diagonal matrix: rank-1 input yields the dense matrix, rank-2 input
	// yields the extracted diagonal vector.
	Diag(x *RawTensor) *RawTensor

	// ReadSubmatrix selects the outer product rows × cols from a rank-2
	// tensor into a fresh (len(rows), len(cols)) tensor.
	ReadSubmatrix(x *RawTensor, rows, cols []int) *RawTensor

	// WriteSubmatrix overwrites the outer product rows × cols of a rank-2
	// tensor with the entries of blk, which must have shape
	// (len(rows), len(cols)).
	WriteSubmatrix(x *RawTensor, rows, cols []int, blk *RawTensor)

	// Rand fills x in place with uniform values in [0, 1).
	Rand(x *RawTensor)

	// Linear algebra on rank-2 tensors, invoked by name.
	Svd(x *RawTensor) (u, s, v *RawTensor, err error)
	Qr(x *RawTensor) (q, r *RawTensor, err error)
	Det(x *RawTensor) (float64, error)
	Inverse(x *RawTensor) (*RawTensor, error)
	Norm(x *RawTensor) float64

	// Metadata.
	Name() string
	Device() Device
}
