package voxel

// Map voxel indices to a position in the voxel array. X varies fastest.
func Flatten(n int, idx [3]int) int {
	return idx[0] + n*(idx[1]+n*idx[2])
}

// The inverse of Flatten.
func Unflatten(n, flat int) [3]int {
	return [3]int{flat % n, (flat / n) % n, flat / (n * n)}
}

// Returns true if all indices lie in [0, n).
func InRange(n int, idx [3]int) bool {
	return idx[0] >= 0 && idx[0] < n &&
		idx[1] >= 0 && idx[1] < n &&
		idx[2] >= 0 && idx[2] < n
}
