package specialize

// MultiplyVectors is the hand-written int32 dot product the specialized one
// is measured and checked against.
func MultiplyVectors(first, second []int32) int32 {
	n := min(len(first), len(second))
	var result int32
	for i := 0; i < n; i++ {
		result += first[i] * second[i]
	}
	return result
}
