// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// ClusterCount returns the number of visibility clusters. Without a
// visibility lump it is derived from the highest leaf cluster.
func (l *Level) ClusterCount() int {
	return l.clusters
}

// walkVis calls visit for every cluster visible from cluster in ascending
// order until visit returns false.
func (l *Level) walkVis(cluster int, visit func(c int) bool) {
	walkRow(l.Vis.Data, l.Vis.Offsets[cluster], l.clusters, visit)
}

// walkRow decodes the row of n clusters starting at buf[v]. The row is run
// length encoded: a zero byte is followed by a count of 8 cluster blocks to
// skip, any other byte is a literal mask with the lowest cluster in bit 0.
// It is false if the row runs past the end of buf.
func walkRow(buf []byte, v, n int, visit func(c int) bool) bool {
	for c := 0; c < n; v++ {
		if v >= len(buf) {
			return false
		}
		if buf[v] == 0 {
			v++
			if v >= len(buf) {
				return false
			}
			c += 8 * int(buf[v])
			continue
		}
		for bit := 0; bit < 8; bit, c = bit+1, c+1 {
			if buf[v]&(1<<bit) == 0 || c >= n {
				continue
			}
			if !visit(c) {
				return true
			}
		}
	}
	return true
}

// DecodeVisibleSet fills out with the clusters potentially visible from
// cluster. out is cleared first, entries past len(out) are dropped.
// NoCluster sees nothing, a level without visibility data sees everything.
func (l *Level) DecodeVisibleSet(cluster int, out []bool) {
	clear(out)
	if cluster == NoCluster {
		return
	}
	if l.Vis.Offsets == nil {
		for i := range out {
			out[i] = true
		}
		return
	}
	l.walkVis(cluster, func(c int) bool {
		if c < len(out) {
			out[c] = true
		}
		return true
	})
}

// ClusterVisible reports whether cluster to is in the visible set of from.
func (l *Level) ClusterVisible(from, to int) bool {
	if from == NoCluster || to == NoCluster {
		return false
	}
	if l.Vis.Offsets == nil {
		return true
	}
	seen := false
	l.walkVis(from, func(c int) bool {
		if c == to {
			seen = true
		}
		return c < to
	})
	return seen
}
