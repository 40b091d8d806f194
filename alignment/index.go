package alignment

import "slices"

// Resolution is the result of resolving one token against a layer.
type Resolution struct {
	Indices map[int]struct{}    // alignment indices the token takes part in
	Touched map[string]struct{} // every token id on either side of those alignments
}

// Has reports whether index i is part of the resolution.
func (r Resolution) Has(i int) bool {
	_, ok := r.Indices[i]
	return ok
}

// Empty reports whether the token has no alignment in the layer.
func (r Resolution) Empty() bool {
	return len(r.Indices) == 0
}

// SortedIndices returns the indices in ascending order.
func (r Resolution) SortedIndices() []int {
	out := make([]int, 0, len(r.Indices))
	for i := range r.Indices {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Resolve scans a layer's alignments and collects every alignment in which
// tokenID appears on side, plus the union of both sides of those alignments.
// It keeps no state; layers are sentence-sized so it is called fresh on
// every interaction.
func Resolve(alignments []Alignment, tokenID string, side Side) Resolution {
	res := Resolution{
		Indices: make(map[int]struct{}),
		Touched: make(map[string]struct{}),
	}
	for i, a := range alignments {
		if !slices.Contains(a.Side(side), tokenID) {
			continue
		}
		res.Indices[i] = struct{}{}
		for _, id := range a.Source {
			res.Touched[id] = struct{}{}
		}
		for _, id := range a.Target {
			res.Touched[id] = struct{}{}
		}
	}
	return res
}

// Connected reports whether the token takes part in any alignment of the layer.
func Connected(alignments []Alignment, tokenID string, side Side) bool {
	for _, a := range alignments {
		if slices.Contains(a.Side(side), tokenID) {
			return true
		}
	}
	return false
}
