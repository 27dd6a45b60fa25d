package solver

import "sync"

// applyRepulsionParallel is the data-parallel variant of applyRepulsion
// for the O(n²) pair pass. Pair rows are dealt round-robin across workers,
// each worker accumulates displacements into its own buffer from a frozen
// position snapshot, and the buffers are summed in worker index order.
// The result is reproducible for a fixed seed and worker count.
//
// Unlike the serial pass, which updates positions as it sweeps, this
// variant applies all displacements after the sweep. The two paths agree
// qualitatively but not bit-for-bit; seeded runs should keep one setting.
func (s *Solver) applyRepulsionParallel() {
	n := s.model.NodeCount()
	workers := min(s.cfg.Workers, n)
	if workers < 2 {
		s.applyRepulsion()
		return
	}

	buffers := make([][]vec, workers)
	var wg sync.WaitGroup
	for w := range workers {
		buffers[w] = make([]vec, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.repelRows(w, workers, buffers[w])
		}()
	}
	wg.Wait()

	for w := range workers {
		for i := range n {
			for a := range s.activeDims {
				s.pos[i][a] += buffers[w][i][a]
			}
		}
	}
}

// repelRows computes repulsion displacements for rows i = first, first+stride, ...
// of the pair triangle into disp, reading positions only.
func (s *Solver) repelRows(first, stride int, disp []vec) {
	n := s.model.NodeCount()
	for i := first; i < n; i += stride {
		for j := i + 1; j < n; j++ {
			dist := s.distance(i, j)
			if dist >= s.cfg.RepelDistance {
				continue
			}
			mag := min(s.cfg.RepelDistance-dist, s.cfg.RepelStrength) * 0.5 / max(dist, epsilon)
			for a := range s.activeDims {
				delta := (s.pos[i][a] - s.pos[j][a]) * mag
				disp[i][a] += delta
				disp[j][a] -= delta
			}
		}
	}
}
