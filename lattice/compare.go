package lattice

import (
	"slices"
	"strconv"
	"strings"
)

// Compare orders two nodes lexicographically by generalization vector.
// The first differing dimension decides; the lower level sorts first.
func Compare(a, b *Node) int {
	return compareVectors(a.transformation, b.transformation)
}

func compareVectors(a, b []int) int {
	return slices.Compare(a, b)
}

func formatVector(v []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(x))
	}
	sb.WriteByte(']')
	return sb.String()
}
