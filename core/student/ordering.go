package student

import (
	"sort"
	"strconv"
)

// LessByRoll orders students by roll number, then by registration number.
// Numeric roll numbers come first in numeric order, the others follow in lexical order.
func LessByRoll(a, b Student) bool {
	na, errA := strconv.Atoi(a.RollNumber)
	nb, errB := strconv.Atoi(b.RollNumber)
	switch {
	case errA == nil && errB == nil:
		if na != nb {
			return na < nb
		}
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		if a.RollNumber != b.RollNumber {
			return a.RollNumber < b.RollNumber
		}
	}
	return a.RegNo < b.RegNo
}

// SortByRoll sorts students in place, see LessByRoll.
func SortByRoll(students []Student) {
	sort.SliceStable(students, func(i, j int) bool { return LessByRoll(students[i], students[j]) })
}
