package task

import "sort"

// Compare orders tasks by timestamp ascending with undated tasks last.
// Equal timestamps and undated pairs compare as 0.
func Compare(a, b Task) int {
	switch {
	case !a.dated && !b.dated:
		return 0
	case !a.dated:
		return 1
	case !b.dated:
		return -1
	case a.timestamp.Before(b.timestamp):
		return -1
	case a.timestamp.After(b.timestamp):
		return 1
	}
	return 0
}

// Sort orders tasks in place by Compare, keeping the input order of ties
func Sort(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Compare(tasks[i], tasks[j]) < 0
	})
}

// IsSorted reports whether tasks are already in display order
func IsSorted(tasks []Task) bool {
	return sort.SliceIsSorted(tasks, func(i, j int) bool {
		return Compare(tasks[i], tasks[j]) < 0
	})
}
