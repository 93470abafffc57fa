package heat

import (
	"context"

	"gonum.org/v1/gonum/spatial/r3"
)

// orienter carries the mutable state of normal propagation.
type orienter struct {
	ctx      context.Context
	adj      [][]int
	frames   []Frame
	centroid r3.Vec
	queue    []int
	visited  []bool
}

// orientNormals flips normals so that neighbouring normals agree in sign.
// Each connected component is seeded at its lowest index, with the seed's
// normal pointing away from the cloud centroid, and spread breadth-first.
// A flip negates BasisY as well so every frame stays right-handed.
// Complexity: O(N + E).
func orientNormals(ctx context.Context, frames []Frame, adj [][]int, centroid r3.Vec) error {
	w := &orienter{
		ctx:      ctx,
		adj:      adj,
		frames:   frames,
		centroid: centroid,
		queue:    make([]int, 0, len(frames)),
		visited:  make([]bool, len(frames)),
	}
	for root := range frames {
		if w.visited[root] {
			continue
		}
		f := &frames[root]
		if r3.Dot(f.Normal, r3.Sub(f.Origin, centroid)) < 0 {
			flip(f)
		}
		w.enqueue(root)
		if err := w.loop(); err != nil {
			return err
		}
	}

	return nil
}

func (w *orienter) enqueue(i int) {
	w.visited[i] = true
	w.queue = append(w.queue, i)
}

// loop drains the queue, aligning each unseen neighbour to its parent.
func (w *orienter) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		i := w.queue[0]
		w.queue = w.queue[1:]
		for _, j := range w.adj[i] {
			if w.visited[j] {
				continue
			}
			if r3.Dot(w.frames[i].Normal, w.frames[j].Normal) < 0 {
				flip(&w.frames[j])
			}
			w.enqueue(j)
		}
	}

	return nil
}

// flip reverses the normal and keeps BasisY = Normal × BasisX.
func flip(f *Frame) {
	f.Normal = r3.Scale(-1, f.Normal)
	f.BasisY = r3.Scale(-1, f.BasisY)
}
