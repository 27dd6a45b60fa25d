package solver

// applyHierarchy nudges edge endpoints apart on the third axis to convey
// parent/child ordering: parents up, children down. The nudge is constant
// magnitude, not distance-proportional, and applies whenever the vertical
// separation is below HierarchyDistance. A self-loop nudges its single
// node both ways and cancels exactly.
func (s *Solver) applyHierarchy() {
	if s.cfg.HierarchyStrength == 0 {
		return
	}
	for _, e := range s.model.Edges() {
		sep := s.pos[e.From][2] - s.pos[e.To][2]
		if sep < s.cfg.HierarchyDistance {
			s.pos[e.From][2] += s.cfg.HierarchyStrength
			s.pos[e.To][2] -= s.cfg.HierarchyStrength
		}
	}
}

// applyRepulsion pushes every unordered pair of distinct nodes apart when
// they sit closer than RepelDistance. Each pair is processed exactly once;
// the push is capped at RepelStrength and antisymmetric between the two
// nodes. Coincident points are defused by the epsilon guard.
func (s *Solver) applyRepulsion() {
	n := s.model.NodeCount()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := s.distance(i, j)
			if dist >= s.cfg.RepelDistance {
				continue
			}
			mag := min(s.cfg.RepelDistance-dist, s.cfg.RepelStrength) * 0.5 / max(dist, epsilon)
			for a := range s.activeDims {
				delta := (s.pos[i][a] - s.pos[j][a]) * mag
				s.pos[i][a] += delta
				s.pos[j][a] -= delta
			}
		}
	}
}

// applySpring relaxes every edge toward EdgeRestLength: stretched edges
// pull their endpoints together, compressed edges push them apart, both
// antisymmetrically. Self-loops have zero length forever and are skipped.
func (s *Solver) applySpring() {
	for _, e := range s.model.Edges() {
		if e.From == e.To {
			continue
		}
		dist := s.distance(e.From, e.To)
		mag := s.cfg.EdgeStrength * (dist - s.cfg.EdgeRestLength) * -0.5 / max(dist, epsilon)
		for a := range s.activeDims {
			delta := (s.pos[e.From][a] - s.pos[e.To][a]) * mag
			s.pos[e.From][a] += delta
			s.pos[e.To][a] -= delta
		}
	}
}
