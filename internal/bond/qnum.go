package bond

// QnumEqual reports channel-wise equality of two charge vectors.
func QnumEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// QnumCompare orders charge vectors lexicographically with channel 0
// most significant. Returns -1, 0, or 1.
func QnumCompare(a, b []int) int {
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// UniqueQnums returns the distinct charge vectors of qnums in order of
// first appearance.
func UniqueQnums(qnums [][]int) [][]int {
	out := make([][]int, 0, len(qnums))
	for _, q := range qnums {
		found := false
		for _, u := range out {
			if QnumEqual(u, q) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, append([]int(nil), q...))
		}
	}
	return out
}

// CommonRows returns the charge vectors present in both a and b, in
// a's order. Inputs are expected to be duplicate-free.
func CommonRows(a, b [][]int) [][]int {
	out := make([][]int, 0)
	for _, qa := range a {
		for _, qb := range b {
			if QnumEqual(qa, qb) {
				out = append(out, append([]int(nil), qa...))
				break
			}
		}
	}
	return out
}

// RowsMatching returns the indices i for which qnums[i] equals q.
func RowsMatching(qnums [][]int, q []int) []int {
	var out []int
	for i, row := range qnums {
		if QnumEqual(row, q) {
			out = append(out, i)
		}
	}
	return out
}
