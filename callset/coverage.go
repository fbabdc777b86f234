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

import (
	"math"

	"kmermlst/kmer"
)

// SentinelDepth is the minimum depth reported when a sequence is too
// short to produce any k-mer at all. Callers must guard against it
// before treating MinDepth as meaningful.
const SentinelDepth = math.MaxInt32

// Analyze walks every k-mer position of seq against counts and reports
// minimum depth, covered/uncovered counts, and the merged gap list.
func Analyze(seq []byte, counts Counts, k, threshold int) AlleleCoverage {
	return analyzeFrom(seq, counts, k, threshold, 1)
}

// AnalyzeFrom is the same walk restricted to k-mer positions >= from,
// used by the template corrector's single-pass gap re-detection.
func AnalyzeFrom(seq []byte, counts Counts, k, threshold, from int) AlleleCoverage {
	return analyzeFrom(seq, counts, k, threshold, from)
}

func analyzeFrom(seq []byte, counts Counts, k, threshold, from int) AlleleCoverage {
	cov := AlleleCoverage{MinDepth: SentinelDepth}
	numKmers := len(seq) - k + 1
	if from < 1 {
		from = 1
	}
	if numKmers < from {
		return cov
	}

	var gapOpen bool
	var gapStart int
	for p := from; p <= numKmers; p++ {
		mer := seq[p-1 : p-1+k]
		c := lookupCount(mer, counts)

		if c < cov.MinDepth {
			cov.MinDepth = c
		}

		if c >= threshold {
			cov.CoveredKmers++
			if gapOpen {
				cov.Gaps = append(cov.Gaps, Gap{gapStart, p - 1})
				gapOpen = false
			}
		} else {
			cov.UncoveredKmers++
			if !gapOpen {
				gapOpen = true
				gapStart = p
			}
		}
	}
	if gapOpen {
		cov.Gaps = append(cov.Gaps, Gap{gapStart, numKmers})
	}

	cov.Gaps = mergeGaps(cov.Gaps, k)
	return cov
}

// lookupCount canonicalizes mer and returns its count, or 0 when the
// k-mer is invalid (non-ACGT) or simply absent from counts.
func lookupCount(mer []byte, counts Counts) int {
	code, err := kmer.New(mer)
	if err != nil {
		return 0
	}
	return counts[code.Canonical().Code]
}

// mergeGaps merges gaps (s1,e1) and (s2,e2) whenever s1+k >= s2: an
// isolated matched k-mer inside a true mutation region can spuriously
// split one gap into two, because a single substitution affects exactly
// k adjacent k-mers. Merging yields one mutation candidate per
// underlying change.
func mergeGaps(gaps []Gap, k int) []Gap {
	if len(gaps) == 0 {
		return gaps
	}
	merged := make([]Gap, 0, len(gaps))
	merged = append(merged, gaps[0])
	for _, g := range gaps[1:] {
		last := &merged[len(merged)-1]
		if last.Start+k >= g.Start {
			if g.End > last.End {
				last.End = g.End
			}
		} else {
			merged = append(merged, g)
		}
	}
	return merged
}
