// Copyright © 2018 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package callset

import "kmermlst/kmer"

var acgt = [4]byte{'A', 'C', 'G', 'T'}

// GapCoverResult is the best edit found by CoverGap: the minimum-mutation
// sequence whose every k-mer is supported at depth >= threshold.
type GapCoverResult struct {
	NMutations int
	Sequence   []byte
	Events     []MutationEvent
	MinDepth   int
}

type gapCoverState struct {
	nMut     int
	seq      []byte
	events   []MutationEvent
	startPos int
}

// CoverGap breadth-first searches the space of substitutions, insertions
// and length 1-3 deletions, bounded by maxMutations, for an edit of
// fragment that makes every k-mer supported at depth >= threshold.
// Returns nil if no such edit is found within budget. Tightening the
// bound on each accepted solution prunes states already in the worklist,
// so the minimum-mutation result wins, ties broken by discovery order.
func CoverGap(fragment []byte, counts Counts, k, threshold, maxMutations int) *GapCoverResult {
	bound := maxMutations
	seen := map[string]bool{string(fragment): true}

	worklist := []gapCoverState{{0, fragment, nil, 0}}

	var best *GapCoverResult

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		if cur.nMut > bound {
			continue
		}

		covered := coveredPositions(cur.seq, counts, k, threshold)
		numKmers := len(covered)

		foundEdit := false
		for p := cur.startPos + 2; p <= numKmers && !foundEdit; p++ {
			prevCovered, curCovered := covered[p-2], covered[p-1]
			if curCovered == prevCovered {
				continue
			}

			var successors []gapCoverState
			if curCovered && !prevCovered {
				successors = expandUncoveredToCovered(cur, k, p, counts, threshold)
			} else {
				successors = expandCoveredToUncovered(cur, k, p, counts, threshold)
			}
			if len(successors) == 0 {
				continue
			}
			foundEdit = true
			for _, s := range successors {
				if s.nMut > bound {
					continue
				}
				key := string(s.seq)
				if seen[key] {
					continue
				}
				seen[key] = true
				worklist = append(worklist, s)
			}
		}

		if foundEdit {
			continue
		}

		cov := Analyze(cur.seq, counts, k, threshold)
		if cov.MinDepth == SentinelDepth || cov.MinDepth < threshold {
			continue
		}
		if best == nil || cur.nMut < best.NMutations {
			best = &GapCoverResult{
				NMutations: cur.nMut,
				Sequence:   cur.seq,
				Events:     cur.events,
				MinDepth:   cov.MinDepth,
			}
			bound = cur.nMut
		}
	}

	return best
}

// coveredPositions returns, for each 1-based k-mer position of seq,
// whether its canonical count is >= threshold.
func coveredPositions(seq []byte, counts Counts, k, threshold int) []bool {
	numKmers := len(seq) - k + 1
	if numKmers <= 0 {
		return nil
	}
	out := make([]bool, numKmers)
	for p := 1; p <= numKmers; p++ {
		out[p-1] = lookupCount(seq[p-1:p-1+k], counts) >= threshold
	}
	return out
}

func supported(mer []byte, counts Counts, threshold int) bool {
	canon, err := kmer.CanonicalSeq(mer)
	if err != nil {
		return false
	}
	code, _ := kmer.Encode(canon)
	return counts[code] >= threshold
}

func cloneBytes(seq []byte) []byte {
	out := make([]byte, len(seq))
	copy(out, seq)
	return out
}

func appendEvent(events []MutationEvent, e MutationEvent) []MutationEvent {
	out := make([]MutationEvent, len(events)+1)
	copy(out, events)
	out[len(events)] = e
	return out
}

// expandUncoveredToCovered handles the "uncovered -> covered" transition
// at position p: the k-mer at p is supported, the one before it is not.
func expandUncoveredToCovered(cur gapCoverState, k, p int, counts Counts, threshold int) []gapCoverState {
	kmerAtP := cur.seq[p-1 : p-1+k]
	var out []gapCoverState

	// Only the first supporting base (in A, C, G, T order) is expanded;
	// the remaining bases at this position are not tried from this state.
	for _, base := range acgt {
		shifted := make([]byte, 0, k)
		shifted = append(shifted, base)
		shifted = append(shifted, kmerAtP[:k-1]...)
		if !supported(shifted, counts, threshold) {
			continue
		}

		// Substitution at 1-based position p-1.
		sub := cloneBytes(cur.seq)
		from := sub[p-2]
		sub[p-2] = base
		out = append(out, gapCoverState{
			nMut:     cur.nMut + 1,
			seq:      sub,
			events:   appendEvent(cur.events, MutationEvent{Kind: Substitution, Pos: p - 1, From: from, To: base}),
			startPos: cur.startPos,
		})

		// Insertion before 1-based position p.
		ins := make([]byte, 0, len(cur.seq)+1)
		ins = append(ins, cur.seq[:p-1]...)
		ins = append(ins, base)
		ins = append(ins, cur.seq[p-1:]...)
		out = append(out, gapCoverState{
			nMut:     cur.nMut + 1,
			seq:      ins,
			events:   appendEvent(cur.events, MutationEvent{Kind: Insertion, Pos: p - 1, Base: base}),
			startPos: cur.startPos,
		})

		// Deletion: scan upstream 1, 2 or 3 positions for a matching base.
		for i := 0; i < 3; i++ {
			length := i + 1
			checkIdx := p - 3 - i
			if checkIdx < 0 {
				break
			}
			if cur.seq[checkIdx] != base {
				continue
			}
			delStart := p - 2 - length
			if delStart < 0 {
				break
			}
			del := make([]byte, 0, len(cur.seq)-length)
			del = append(del, cur.seq[:delStart]...)
			del = append(del, cur.seq[p-2:]...)
			out = append(out, gapCoverState{
				nMut:     cur.nMut + length,
				seq:      del,
				events:   appendEvent(cur.events, MutationEvent{Kind: Deletion, Pos: p - 1, Length: length}),
				startPos: cur.startPos,
			})
			break
		}
		break
	}

	return out
}

// expandCoveredToUncovered handles the "covered -> uncovered" transition
// at position p: the k-mer at p-1 is supported, the one at p is not.
func expandCoveredToUncovered(cur gapCoverState, k, p int, counts Counts, threshold int) []gapCoverState {
	kmerAtPrev := cur.seq[p-2 : p-2+k]
	var out []gapCoverState

	// Mirrored: only the first supporting base is expanded.
	for _, base := range acgt {
		shifted := make([]byte, 0, k)
		shifted = append(shifted, kmerAtPrev[1:]...)
		shifted = append(shifted, base)
		if !supported(shifted, counts, threshold) {
			continue
		}

		pos := p + k - 1 // 1-based

		// Substitution at pos.
		sub := cloneBytes(cur.seq)
		from := sub[pos-1]
		sub[pos-1] = base
		out = append(out, gapCoverState{
			nMut:     cur.nMut + 1,
			seq:      sub,
			events:   appendEvent(cur.events, MutationEvent{Kind: Substitution, Pos: pos, From: from, To: base}),
			startPos: cur.startPos,
		})

		// Insertion before pos.
		ins := make([]byte, 0, len(cur.seq)+1)
		ins = append(ins, cur.seq[:pos-1]...)
		ins = append(ins, base)
		ins = append(ins, cur.seq[pos-1:]...)
		out = append(out, gapCoverState{
			nMut:     cur.nMut + 1,
			seq:      ins,
			events:   appendEvent(cur.events, MutationEvent{Kind: Insertion, Pos: pos, Base: base}),
			startPos: cur.startPos,
		})

		// Deletion: scan downstream 1, 2 or 3 positions for a matching base.
		for i := 0; i < 3; i++ {
			length := i + 1
			checkIdx := pos - 1 + length
			if checkIdx >= len(cur.seq) {
				break
			}
			if cur.seq[checkIdx] != base {
				continue
			}
			delEnd := pos - 1 + length
			del := make([]byte, 0, len(cur.seq)-length)
			del = append(del, cur.seq[:pos-1]...)
			del = append(del, cur.seq[delEnd:]...)
			out = append(out, gapCoverState{
				nMut:     cur.nMut + length,
				seq:      del,
				events:   appendEvent(cur.events, MutationEvent{Kind: Deletion, Pos: pos, Length: length}),
				startPos: cur.startPos,
			})
			break
		}
		break
	}

	return out
}
