package placement

import "context"

// OptimizeResult reports what a pass of [Optimize] did.
type OptimizeResult struct {
	Total      int64 // running total after the last accepted swap
	Swaps      int   // accepted swaps
	Iterations int   // outer iterations completed
	Expired    bool  // stopped by the deadline
	Canceled   bool  // stopped by ctx
}

// Optimize runs one pass of pairwise swap hill climbing over e's layout,
// starting from the baseline total.
//
// For every performer k in index order and every j from the last index down
// to k+1 with a different role, the pair swaps positions when the two of
// them score strictly more after the swap than before. Same-role pairs are
// skipped. Scores are recomputed for each comparison except k's own, which
// is carried over from the last accepted swap.
//
// expired is polled after each outer iteration; a nil expired never fires.
// progress, when set, is called after each outer iteration as well.
func Optimize(ctx context.Context, e *Engine, baseline int64, expired func() bool, progress func(OptimizeResult)) OptimizeResult {
	res := OptimizeResult{Total: baseline}
	roles := e.p.Roles
	n := len(roles)

	for k := 0; k < n; k++ {
		k0 := e.ScoreOne(k, roles[k])
		for j := n - 1; j > k; j-- {
			if roles[k] == roles[j] {
				continue
			}
			j0 := e.ScoreOne(j, roles[j])
			k1 := e.ScoreOne(j, roles[k])
			j1 := e.ScoreOne(k, roles[j])
			if k0+j0 < k1+j1 {
				e.Swap(k, j)
				res.Total += (k1 + j1) - (k0 + j0)
				res.Swaps++
				k0 = k1
			}
		}
		res.Iterations++

		if progress != nil {
			progress(res)
		}
		if expired != nil && expired() {
			res.Expired = true
			break
		}
		if ctx.Err() != nil {
			res.Canceled = true
			break
		}
	}
	return res
}
