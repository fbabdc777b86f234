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

// CorrectTemplate iterates CoverGap across all gaps of a template allele,
// assembling a single corrected novel sequence and the list of mutation
// events applied. Gaps CoverGap cannot resolve within maxMutations are
// preserved in the returned NovelAllele.UncorrectedGaps.
func CorrectTemplate(template []byte, counts Counts, k, threshold, maxMutations int) NovelAllele {
	correctedSeq := cloneBytes(template)
	currentSkip := 1
	var mutations []MutationEvent
	var uncorrectedGaps []Gap
	totalMut := 0
	maxDepth := 0

	for {
		cov := AnalyzeFrom(correctedSeq, counts, k, threshold, currentSkip)
		if len(cov.Gaps) == 0 {
			break
		}
		s, e := cov.Gaps[0].Start, cov.Gaps[0].End

		adjStart := s - 1
		if adjStart < 1 {
			adjStart = 1
		}
		adjEnd := e + k
		if adjEnd > len(correctedSeq) {
			adjEnd = len(correctedSeq)
		}

		fragment := correctedSeq[adjStart-1 : adjEnd]

		result := CoverGap(fragment, counts, k, threshold, maxMutations)
		if result == nil {
			uncorrectedGaps = append(uncorrectedGaps, Gap{s, e})
			currentSkip = e + 1
			continue
		}

		newSeq := make([]byte, 0, len(correctedSeq)-len(fragment)+len(result.Sequence))
		newSeq = append(newSeq, correctedSeq[:adjStart-1]...)
		newSeq = append(newSeq, result.Sequence...)
		newSeq = append(newSeq, correctedSeq[adjEnd:]...)
		correctedSeq = newSeq

		for _, ev := range result.Events {
			ev.Pos += adjStart - 1
			mutations = append(mutations, ev)
		}

		currentSkip = adjStart + len(result.Sequence) - k
		totalMut += result.NMutations
		if result.MinDepth > maxDepth {
			maxDepth = result.MinDepth
		}
	}

	return NovelAllele{
		Sequence:        correctedSeq,
		NMutations:      totalMut,
		Mutations:       mutations,
		MinDepth:        maxDepth,
		UncorrectedGaps: uncorrectedGaps,
	}
}
