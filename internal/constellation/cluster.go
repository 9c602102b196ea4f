package constellation

import "constellation-viewer/pkg/geometry"

// ClusterGroupSize is the number of consecutive lines that form one cluster.
// The generation service emits lines cluster by cluster, three at a time;
// the last cluster may be shorter.
// TODO: read the group size from the generation response once the service
// publishes it instead of relying on its current line ordering.
const ClusterGroupSize = 3

// ClusterOf returns the cluster index of the line at position i.
func ClusterOf(i int) int {
	return i / ClusterGroupSize
}

// ClusterCount returns the number of clusters formed by lines.
func ClusterCount(lines []geometry.LineSegment) int {
	return (len(lines) + ClusterGroupSize - 1) / ClusterGroupSize
}

// HighlightedLines returns every lines[i] whose cluster is *selected, in
// their original order. A nil selection or a cluster index with no lines
// yields an empty slice.
func HighlightedLines(lines []geometry.LineSegment, selected *int) []geometry.LineSegment {
	if selected == nil {
		return nil
	}
	k := *selected
	if k < 0 || k >= ClusterCount(lines) {
		return nil
	}

	start := k * ClusterGroupSize
	end := min(start+ClusterGroupSize, len(lines))
	out := make([]geometry.LineSegment, end-start)
	copy(out, lines[start:end])
	return out
}
