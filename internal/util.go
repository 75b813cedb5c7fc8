package internal

// ReconstructPath walks parent links from current back to the root and
// returns the collected values in root-to-current order. parentOf reports
// false for the root, which contributes no value.
func ReconstructPath[T any](
	current int,
	parentOf func(index int) (int, bool),
	valueOf func(index int) T,
) []T {
	path := make([]T, 0)
	for {
		previous, exists := parentOf(current)
		if !exists {
			break
		}
		path = append(path, valueOf(current))
		current = previous
	}
	Reverse(path)
	return path
}

// Reverse reverses items in place.
func Reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
