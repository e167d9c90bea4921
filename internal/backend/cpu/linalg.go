package cpu

import (
	"errors"
	"fmt"
	"math"

	"github.com/symten-ml/symten/internal/tensor"
)

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = errors.New("matrix is singular")

const jacobiEps = 1e-12

func checkMatrix(op string, x *tensor.RawTensor) error {
	if len(x.Shape()) != 2 {
		return fmt.Errorf("%s: expected rank-2 tensor, got rank %d", op, len(x.Shape()))
	}
	return nil
}

// toFloat64 returns the elements of x as a float64 slice, converting
// if necessary. Kernels work in float64 and convert back at the end.
func toFloat64(x *tensor.RawTensor) []float64 {
	switch x.DType() {
	case tensor.Float64:
		v := x.AsFloat64()
		out := make([]float64, len(v))
		copy(out, v)
		return out
	case tensor.Float32:
		v := x.AsFloat32()
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out
	default:
		panic(fmt.Sprintf("unsupported dtype %s", x.DType()))
	}
}

func fromFloat64(cpu *CPUBackend, data []float64, shape tensor.Shape, dtype tensor.DataType) *tensor.RawTensor {
	result := newResult("linalg", shape, dtype, cpu.device)
	for i, v := range data {
		result.SetAt(i, v)
	}
	return result
}

// Svd computes the reduced singular value decomposition x = u * diag(s) * v,
// with u of shape (m, k), s of shape (k,) sorted in descending order, and
// v of shape (k, n), where k = min(m, n). One-sided Jacobi on the tall
// orientation; the wide case is handled by transposing and swapping u and v.
func (cpu *CPUBackend) Svd(x *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, *tensor.RawTensor, error) {
	if err := checkMatrix("svd", x); err != nil {
		return nil, nil, nil, err
	}
	m, n := x.Shape()[0], x.Shape()[1]
	a := toFloat64(x)
	dtype := x.DType()

	if m >= n {
		u, s, vt := svdTall(a, m, n)
		return fromFloat64(cpu, u, tensor.Shape{m, n}, dtype),
			fromFloat64(cpu, s, tensor.Shape{n}, dtype),
			fromFloat64(cpu, vt, tensor.Shape{n, n}, dtype), nil
	}

	// x^T = ub * diag(s) * vbt, so x = vbt^T * diag(s) * ub^T.
	at := transpose(a, n, m)
	ub, s, vbt := svdTall(at, n, m)
	u := transpose(vbt, m, m)
	vt := transpose(ub, m, n)
	return fromFloat64(cpu, u, tensor.Shape{m, m}, dtype),
		fromFloat64(cpu, s, tensor.Shape{m}, dtype),
		fromFloat64(cpu, vt, tensor.Shape{m, n}, dtype), nil
}

// svdTall runs one-sided Jacobi on an m x n matrix with m >= n,
// returning u (m x n), s (n) descending, and vt (n x n).
func svdTall(a []float64, m, n int) (u, s, vt []float64) {
	work := make([]float64, len(a))
	copy(work, a)
	// v accumulates the right rotations, stored row-major n x n.
	v := make([]float64, n*n)
	for i := 0; i < n; i++ {
		v[i*n+i] = 1
	}

	for sweep := 0; sweep < 60; sweep++ {
		off := 0.0
		for p := 0; p < n-1; p++ {
			for q := p + 1; q < n; q++ {
				var alpha, beta, gamma float64
				for i := 0; i < m; i++ {
					ap, aq := work[i*n+p], work[i*n+q]
					alpha += ap * ap
					beta += aq * aq
					gamma += ap * aq
				}
				if math.Abs(gamma) <= jacobiEps*math.Sqrt(alpha*beta) {
					continue
				}
				off += gamma * gamma

				zeta := (beta - alpha) / (2 * gamma)
				var t float64
				if zeta >= 0 {
					t = 1 / (zeta + math.Sqrt(1+zeta*zeta))
				} else {
					t = -1 / (-zeta + math.Sqrt(1+zeta*zeta))
				}
				c := 1 / math.Sqrt(1+t*t)
				sn := c * t

				for i := 0; i < m; i++ {
					ap, aq := work[i*n+p], work[i*n+q]
					work[i*n+p] = c*ap - sn*aq
					work[i*n+q] = sn*ap + c*aq
				}
				for i := 0; i < n; i++ {
					vp, vq := v[i*n+p], v[i*n+q]
					v[i*n+p] = c*vp - sn*vq
					v[i*n+q] = sn*vp + c*vq
				}
			}
		}
		if off == 0 {
			break
		}
	}

	s = make([]float64, n)
	u = make([]float64, m*n)
	for j := 0; j < n; j++ {
		var norm float64
		for i := 0; i < m; i++ {
			norm += work[i*n+j] * work[i*n+j]
		}
		s[j] = math.Sqrt(norm)
		if s[j] > 0 {
			for i := 0; i < m; i++ {
				u[i*n+j] = work[i*n+j] / s[j]
			}
		}
	}

	// Sort singular values descending, permuting columns of u and v.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if s[order[j]] > s[order[best]] {
				best = j
			}
		}
		order[i], order[best] = order[best], order[i]
	}

	sorted := make([]float64, n)
	uSorted := make([]float64, m*n)
	vt = make([]float64, n*n)
	for jj, j := range order {
		sorted[jj] = s[j]
		for i := 0; i < m; i++ {
			uSorted[i*n+jj] = u[i*n+j]
		}
		for i := 0; i < n; i++ {
			vt[jj*n+i] = v[i*n+j]
		}
	}
	return uSorted, sorted, vt
}

// transpose returns the rows x cols transpose of a cols x rows matrix.
func transpose(a []float64, rows, cols int) []float64 {
	out := make([]float64, len(a))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[i*cols+j] = a[j*rows+i]
		}
	}
	return out
}

// Qr computes the reduced QR decomposition x = q * r with q of shape
// (m, k) orthonormal and r of shape (k, n) upper triangular, k = min(m, n).
// Modified Gram-Schmidt; rank-deficient input is rejected.
func (cpu *CPUBackend) Qr(x *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, error) {
	if err := checkMatrix("qr", x); err != nil {
		return nil, nil, err
	}
	m, n := x.Shape()[0], x.Shape()[1]
	k := m
	if n < k {
		k = n
	}
	a := toFloat64(x)
	dtype := x.DType()

	q := make([]float64, m*k)
	r := make([]float64, k*n)

	// Columns of a, orthogonalized in place.
	for j := 0; j < k; j++ {
		var norm float64
		for i := 0; i < m; i++ {
			norm += a[i*n+j] * a[i*n+j]
		}
		norm = math.Sqrt(norm)
		if norm < 1e-14 {
			return nil, nil, fmt.Errorf("qr: column %d is linearly dependent", j)
		}
		r[j*n+j] = norm
		for i := 0; i < m; i++ {
			q[i*k+j] = a[i*n+j] / norm
		}
		for l := j + 1; l < n; l++ {
			var dot float64
			for i := 0; i < m; i++ {
				dot += q[i*k+j] * a[i*n+l]
			}
			r[j*n+l] = dot
			for i := 0; i < m; i++ {
				a[i*n+l] -= dot * q[i*k+j]
			}
		}
	}

	return fromFloat64(cpu, q, tensor.Shape{m, k}, dtype),
		fromFloat64(cpu, r, tensor.Shape{k, n}, dtype), nil
}

// Det computes the determinant of a square matrix by LU decomposition
// with partial pivoting.
func (cpu *CPUBackend) Det(x *tensor.RawTensor) (float64, error) {
	if err := checkMatrix("det", x); err != nil {
		return 0, err
	}
	n := x.Shape()[0]
	if x.Shape()[1] != n {
		return 0, fmt.Errorf("det: expected square matrix, got %v", x.Shape())
	}

	a := toFloat64(x)
	det := 1.0
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row*n+col]) > math.Abs(a[pivot*n+col]) {
				pivot = row
			}
		}
		if a[pivot*n+col] == 0 {
			return 0, nil
		}
		if pivot != col {
			for j := 0; j < n; j++ {
				a[col*n+j], a[pivot*n+j] = a[pivot*n+j], a[col*n+j]
			}
			det = -det
		}
		det *= a[col*n+col]
		for row := col + 1; row < n; row++ {
			factor := a[row*n+col] / a[col*n+col]
			for j := col; j < n; j++ {
				a[row*n+j] -= factor * a[col*n+j]
			}
		}
	}
	return det, nil
}

// Inverse computes the inverse of a square matrix by Gauss-Jordan
// elimination with partial pivoting.
func (cpu *CPUBackend) Inverse(x *tensor.RawTensor) (*tensor.RawTensor, error) {
	if err := checkMatrix("inverse", x); err != nil {
		return nil, err
	}
	n := x.Shape()[0]
	if x.Shape()[1] != n {
		return nil, fmt.Errorf("inverse: expected square matrix, got %v", x.Shape())
	}

	a := toFloat64(x)
	inv := make([]float64, n*n)
	for i := 0; i < n; i++ {
		inv[i*n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row*n+col]) > math.Abs(a[pivot*n+col]) {
				pivot = row
			}
		}
		if a[pivot*n+col] == 0 {
			return nil, ErrSingular
		}
		if pivot != col {
			for j := 0; j < n; j++ {
				a[col*n+j], a[pivot*n+j] = a[pivot*n+j], a[col*n+j]
				inv[col*n+j], inv[pivot*n+j] = inv[pivot*n+j], inv[col*n+j]
			}
		}
		p := a[col*n+col]
		for j := 0; j < n; j++ {
			a[col*n+j] /= p
			inv[col*n+j] /= p
		}
		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := a[row*n+col]
			if factor == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a[row*n+j] -= factor * a[col*n+j]
				inv[row*n+j] -= factor * inv[col*n+j]
			}
		}
	}

	return fromFloat64(cpu, inv, tensor.Shape{n, n}, x.DType()), nil
}

// Norm computes the Frobenius norm over all elements.
func (cpu *CPUBackend) Norm(x *tensor.RawTensor) float64 {
	var sum float64
	switch x.DType() {
	case tensor.Float64:
		for _, v := range x.AsFloat64() {
			sum += v * v
		}
	case tensor.Float32:
		for _, v := range x.AsFloat32() {
			sum += float64(v) * float64(v)
		}
	default:
		panic(fmt.Sprintf("norm: unsupported dtype %s", x.DType()))
	}
	return math.Sqrt(sum)
}
