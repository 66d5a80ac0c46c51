// Package linalg provides the symmetric Jacobi eigenvalue decomposition
// used in place of a full SVD library to recover the smallest-eigenvalue
// eigenvector of A^T*A for the 8-point fundamental-matrix fit. No
// third-party linear-algebra package in the retrieved example set could
// be imported as a real dependency (see the grounding ledger); this is
// the module's one deliberately stdlib-only component.
package linalg

import (
	"errors"
	"math"
)

// ErrNotConverged is returned when the Jacobi sweep exceeds maxIter
// without reducing the largest off-diagonal element below tol.
var ErrNotConverged = errors.New("linalg: jacobi eigen decomposition did not converge")

// Eigen performs Jacobi eigenvalue decomposition on the symmetric matrix
// a (n x n, row-major, not mutated). It returns the eigenvalues and the
// corresponding eigenvectors as columns of the returned n x n matrix.
func Eigen(a [][]float64, tol float64, maxIter int) ([]float64, [][]float64, error) {
	n := len(a)
	A := cloneMatrix(a)
	Q := identity(n)

	iter := 0
	for ; iter < maxIter; iter++ {
		p, q, maxOff := largestOffDiagonal(A)
		if maxOff < tol {
			break
		}
		rotate(A, Q, p, q)
	}
	if iter == maxIter {
		return nil, nil, ErrNotConverged
	}

	eigenvalues := make([]float64, n)
	for i := 0; i < n; i++ {
		eigenvalues[i] = A[i][i]
	}
	return eigenvalues, Q, nil
}

// SmallestEigenvector returns the eigenvector whose eigenvalue has the
// smallest absolute value, the right-singular-vector analogue used to
// recover the fundamental matrix from A^T*A.
func SmallestEigenvector(a [][]float64, tol float64, maxIter int) ([]float64, error) {
	eigenvalues, q, err := Eigen(a, tol, maxIter)
	if err != nil {
		return nil, err
	}
	best := 0
	for i := 1; i < len(eigenvalues); i++ {
		if math.Abs(eigenvalues[i]) < math.Abs(eigenvalues[best]) {
			best = i
		}
	}
	n := len(q)
	v := make([]float64, n)
	for i := 0; i < n; i++ {
		v[i] = q[i][best]
	}
	return v, nil
}

func cloneMatrix(a [][]float64) [][]float64 {
	n := len(a)
	out := make([][]float64, n)
	for i := range a {
		out[i] = append([]float64(nil), a[i]...)
	}
	return out
}

func identity(n int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
		out[i][i] = 1
	}
	return out
}

func largestOffDiagonal(a [][]float64) (p, q int, maxOff float64) {
	n := len(a)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := math.Abs(a[i][j])
			if v > maxOff {
				maxOff, p, q = v, i, j
			}
		}
	}
	return
}

// rotate applies one Jacobi rotation annihilating a[p][q], updating A and
// accumulating the rotation into Q in place.
func rotate(a, q [][]float64, p, qi int) {
	n := len(a)
	app, aqq, apq := a[p][p], a[qi][qi], a[p][qi]
	if apq == 0 {
		return
	}

	theta := (aqq - app) / (2 * apq)
	t := math.Copysign(1.0/(math.Abs(theta)+math.Sqrt(theta*theta+1)), theta)
	c := 1.0 / math.Sqrt(t*t+1)
	s := t * c

	for i := 0; i < n; i++ {
		if i != p && i != qi {
			aip, aiq := a[i][p], a[i][qi]
			a[i][p] = c*aip - s*aiq
			a[p][i] = a[i][p]
			a[i][qi] = s*aip + c*aiq
			a[qi][i] = a[i][qi]
		}
	}

	a[p][p] = c*c*app - 2*c*s*apq + s*s*aqq
	a[qi][qi] = s*s*app + 2*c*s*apq + c*c*aqq
	a[p][qi] = 0
	a[qi][p] = 0

	for i := 0; i < n; i++ {
		qip, qiq := q[i][p], q[i][qi]
		q[i][p] = c*qip - s*qiq
		q[i][qi] = s*qip + c*qiq
	}
}
