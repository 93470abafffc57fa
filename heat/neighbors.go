package heat

import (
	"context"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// site is a cloud point that remembers its row index, so that neighbours
// found in the (reordered) k-d tree map back to matrix rows.
type site struct {
	p   r3.Vec
	idx int
}

func (s site) coord(d kdtree.Dim) float64 {
	switch d {
	case 0:
		return s.p.X
	case 1:
		return s.p.Y
	default:
		return s.p.Z
	}
}

// Compare implements kdtree.Comparable.
func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.coord(d) - c.(site).coord(d)
}

// Dims implements kdtree.Comparable.
func (site) Dims() int { return 3 }

// Distance implements kdtree.Comparable as the squared Euclidean distance,
// which is what the tree's pruning compares against.
func (s site) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(s.p, c.(site).p))
}

// sites implements kdtree.Interface.
type sites []site

func (s sites) Index(i int) kdtree.Comparable         { return s[i] }
func (s sites) Len() int                              { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int                { return sitePlane{sites: s, dim: d}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface { return s[start:end] }

// sitePlane orders sites along one axis for median partitioning.
type sitePlane struct {
	sites
	dim kdtree.Dim
}

func (p sitePlane) Less(i, j int) bool { return p.sites[i].coord(p.dim) < p.sites[j].coord(p.dim) }
func (p sitePlane) Swap(i, j int)      { p.sites[i], p.sites[j] = p.sites[j], p.sites[i] }
func (p sitePlane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p sitePlane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}

// neighbor is one kNN hit.
type neighbor struct {
	idx   int
	dist2 float64
}

// knn returns, for every point, up to k nearest other points ordered by
// (distance, index). Points coinciding with the query are dropped.
// Complexity: O(N log N) build, O(N·k log N) expected queries.
func knn(ctx context.Context, pts []r3.Vec, k int) ([][]neighbor, error) {
	all := make(sites, len(pts))
	for i, p := range pts {
		all[i] = site{p: p, idx: i}
	}
	tree := kdtree.New(append(sites(nil), all...), false)

	out := make([][]neighbor, len(pts))
	for i, q := range all {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		keep := kdtree.NewNKeeper(k + 1)
		tree.NearestSet(keep, q)

		hits := make([]neighbor, 0, len(keep.Heap))
		for _, h := range keep.Heap {
			if h.Comparable == nil {
				continue // sentinel left when fewer than k+1 points exist
			}
			s := h.Comparable.(site)
			if s.idx == i || h.Dist == 0 {
				continue
			}
			hits = append(hits, neighbor{idx: s.idx, dist2: h.Dist})
		}
		sort.Slice(hits, func(a, b int) bool {
			if hits[a].dist2 != hits[b].dist2 {
				return hits[a].dist2 < hits[b].dist2
			}
			return hits[a].idx < hits[b].idx
		})
		if len(hits) > k {
			hits = hits[:k]
		}
		out[i] = hits
	}

	return out, nil
}

// symmetrize returns the union neighbour graph as sorted adjacency lists.
func symmetrize(nbrs [][]neighbor) [][]int {
	sets := make([]map[int]struct{}, len(nbrs))
	for i := range sets {
		sets[i] = make(map[int]struct{}, len(nbrs[i]))
	}
	for i, hs := range nbrs {
		for _, h := range hs {
			sets[i][h.idx] = struct{}{}
			sets[h.idx][i] = struct{}{}
		}
	}
	adj := make([][]int, len(nbrs))
	for i, s := range sets {
		adj[i] = make([]int, 0, len(s))
		for j := range s {
			adj[i] = append(adj[i], j)
		}
		sort.Ints(adj[i])
	}

	return adj
}
