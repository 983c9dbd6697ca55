package forecast

import "math"

// pivotEpsilon is the near-zero pivot cutoff; columns below it are
// collinear and get a zero weight instead of blowing up the solve.
const pivotEpsilon = 1e-9

// SolveRidge fits w minimizing ||Xw - y||² + λ||w||² by solving the
// normal equations (XᵗX + λI)w = Xᵗy with Gaussian elimination and
// partial pivoting. X is row-major, len(X) samples by len(X[0])
// features. Degenerate columns are skipped, never fatal.
func SolveRidge(X [][]float64, y []float64, lambda float64) []float64 {
	if len(X) == 0 || len(X[0]) == 0 {
		return nil
	}
	n := len(X[0])

	// A = XᵗX + λI, b = Xᵗy
	a := make([][]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
		a[i][i] = lambda
	}
	for r, row := range X {
		for i := 0; i < n; i++ {
			b[i] += row[i] * y[r]
			for j := 0; j < n; j++ {
				a[i][j] += row[i] * row[j]
			}
		}
	}

	// Forward elimination with partial pivoting.
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < pivotEpsilon {
			continue
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for j := col; j < n; j++ {
				a[r][j] -= factor * a[col][j]
			}
			b[r] -= factor * b[col]
		}
	}

	// Back substitution; skipped columns resolve to weight zero.
	w := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if math.Abs(a[i][i]) < pivotEpsilon {
			w[i] = 0
			continue
		}
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * w[j]
		}
		w[i] = sum / a[i][i]
	}
	return w
}
