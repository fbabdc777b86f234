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
	"fmt"
	"sort"
)

// CallOptions bundles the parameters threaded through every step of
// calling one locus.
type CallOptions struct {
	K            int
	Threshold    int
	MaxMutations int

	// GapThreshold is the depth threshold used inside gap correction,
	// usually stricter than Threshold. Zero means "same as Threshold".
	GapThreshold int
}

// candidate is one of the top-10 ranked alleles under consideration for
// a locus, carrying its coverage analysis alongside its vote total.
type candidate struct {
	allele   int
	votes    int64
	coverage AlleleCoverage
}

// CallAllele runs the full per-locus decision tree: absent when no k-mer
// voted, a known allele when exactly one top candidate is fully covered,
// multiple when several are, and otherwise novel-allele reconstruction
// from the closest template, degrading to partial or uncovered.
// votesPerAllele is 1-based-indexed-by-zero (votesPerAllele[i-1] is
// allele i's signed vote total); locusVotes is the nonnegative total
// produced by AggregateVotes. seqs loads candidate allele sequences
// lazily, one per 1-based internal index.
func CallAllele(locus Locus, votesPerAllele []int64, locusVotes uint64, seqs AlleleSequences, counts Counts, opts CallOptions) AlleleCall {
	if locusVotes == 0 {
		return AlleleCall{
			Outcome: Absent,
			Label:   "0",
			Flag:    FlagNone,
			Report:  "Not present, no kmers found.",
		}
	}

	top := topCandidates(votesPerAllele, 10)

	candidates := make([]candidate, 0, len(top))
	for _, a := range top {
		seq, err := seqs.Sequence(a)
		if err != nil {
			continue
		}
		cov := Analyze(seq, counts, opts.K, opts.Threshold)
		// A sequence shorter than k produces no k-mers at all: nothing
		// to cover, nothing to correct. Treat it as absent rather than
		// letting its empty gap list fake a fully-covered candidate.
		if cov.CoveredKmers+cov.UncoveredKmers == 0 {
			continue
		}
		cov.Allele = a
		cov.Votes = votesPerAllele[a-1]
		candidates = append(candidates, candidate{allele: a, votes: votesPerAllele[a-1], coverage: cov})
	}

	var covered []candidate
	for _, c := range candidates {
		if c.coverage.MinDepth != SentinelDepth && c.coverage.MinDepth >= opts.Threshold {
			covered = append(covered, c)
		}
	}

	if len(covered) == 1 {
		c := covered[0]
		report := ""
		if c.votes < 0 {
			report = "warning: negative accumulated votes"
		}
		return AlleleCall{
			Outcome:  Single,
			Label:    locus.ExternalID(c.allele),
			Flag:     FlagNone,
			Coverage: c.coverage.Coverage(),
			Depth:    c.coverage.MinDepth,
			Report:   report,
		}
	}

	if len(covered) > 1 {
		sort.SliceStable(covered, func(i, j int) bool { return covered[i].votes > covered[j].votes })
		best := covered[0]
		toCheck := make([]AlleleCoverage, len(covered))
		text := "Multiple alleles fully covered:"
		for i, c := range covered {
			toCheck[i] = c.coverage
			text += fmt.Sprintf(" %s(depth=%d,votes=%d)", locus.ExternalID(c.allele), c.coverage.MinDepth, c.votes)
		}
		return AlleleCall{
			Outcome:        Multiple,
			Label:          locus.ExternalID(best.allele),
			Flag:           FlagMultiple,
			Coverage:       best.coverage.Coverage(),
			Depth:          best.coverage.MinDepth,
			Report:         text,
			AllelesToCheck: toCheck,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].coverage.UncoveredKmers < candidates[j].coverage.UncoveredKmers
	})
	if len(candidates) == 0 {
		return AlleleCall{Outcome: Absent, Label: "0", Flag: FlagNone, Report: "Not present, no kmers found."}
	}
	best := candidates[0]

	if best.coverage.UncoveredKmers > opts.K*opts.MaxMutations {
		return AlleleCall{
			Outcome:        Uncovered,
			Label:          "0",
			Flag:           FlagUncovered,
			Coverage:       best.coverage.Coverage(),
			Report:         "Not present; best covered is below threshold.",
			AllelesToCheck: []AlleleCoverage{best.coverage},
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		gi, gj := len(candidates[i].coverage.Gaps), len(candidates[j].coverage.Gaps)
		if gi != gj {
			return gi < gj
		}
		return candidates[i].votes > candidates[j].votes
	})
	bestGapCount := len(candidates[0].coverage.Gaps)

	gapThreshold := opts.GapThreshold
	if gapThreshold <= 0 {
		gapThreshold = opts.Threshold
	}

	type correction struct {
		allele int
		votes  int64
		novel  NovelAllele
	}
	var corrections []correction
	for _, c := range candidates {
		if len(c.coverage.Gaps) != bestGapCount {
			continue
		}
		seq, err := seqs.Sequence(c.allele)
		if err != nil {
			continue
		}
		novel := CorrectTemplate(seq, counts, opts.K, gapThreshold, opts.MaxMutations)
		novel.TemplateExternalID = locus.ExternalID(c.allele)
		corrections = append(corrections, correction{allele: c.allele, votes: c.votes, novel: novel})
	}

	sort.SliceStable(corrections, func(i, j int) bool {
		gi, gj := len(corrections[i].novel.UncorrectedGaps), len(corrections[j].novel.UncorrectedGaps)
		if gi != gj {
			return gi < gj
		}
		if corrections[i].novel.NMutations != corrections[j].novel.NMutations {
			return corrections[i].novel.NMutations < corrections[j].novel.NMutations
		}
		return corrections[i].votes > corrections[j].votes
	})

	if len(corrections) == 0 {
		return AlleleCall{
			Outcome:        Uncovered,
			Label:          "0",
			Flag:           FlagUncovered,
			Coverage:       best.coverage.Coverage(),
			Report:         "Not present; best covered is below threshold.",
			AllelesToCheck: []AlleleCoverage{best.coverage},
		}
	}

	chosen := corrections[0]
	if len(chosen.novel.UncorrectedGaps) == 0 {
		templateCov := candidatesCoverage(candidates, chosen.allele)
		novelCov := Analyze(chosen.novel.Sequence, counts, opts.K, opts.Threshold)
		desc := "reconstructed novel allele from " + chosen.novel.TemplateExternalID + ":"
		for _, ev := range chosen.novel.Mutations {
			desc += " " + ev.Describe()
		}
		return AlleleCall{
			Outcome:        Novel,
			Label:          "N",
			Flag:           FlagNone,
			Coverage:       novelCov.Coverage(),
			Depth:          chosen.novel.MinDepth,
			Report:         desc,
			NovelAllele:    &chosen.novel,
			AllelesToCheck: []AlleleCoverage{templateCov, novelCov},
		}
	}

	templateCov := candidatesCoverage(candidates, chosen.allele)
	return AlleleCall{
		Outcome:        Partial,
		Label:          chosen.novel.TemplateExternalID,
		Flag:           FlagPartial,
		Coverage:       round4(templateCov.Coverage()),
		Depth:          templateCov.MinDepth,
		Report:         fmt.Sprintf("partial match to %s, %d uncorrected gaps", chosen.novel.TemplateExternalID, len(chosen.novel.UncorrectedGaps)),
		AllelesToCheck: []AlleleCoverage{templateCov},
	}
}

func candidatesCoverage(candidates []candidate, allele int) AlleleCoverage {
	for _, c := range candidates {
		if c.allele == allele {
			return c.coverage
		}
	}
	return AlleleCoverage{Allele: allele, MinDepth: SentinelDepth}
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}

// topCandidates returns up to n 1-based allele indices ranked by
// descending vote. The sort must be stable so ties preserve allele
// order.
func topCandidates(votes []int64, n int) []int {
	idx := make([]int, len(votes))
	for i := range votes {
		idx[i] = i + 1
	}
	sort.SliceStable(idx, func(i, j int) bool { return votes[idx[i]-1] > votes[idx[j]-1] })
	if len(idx) > n {
		idx = idx[:n]
	}
	return idx
}

// VoteOnlyResult is the highest-voted allele for a locus regardless of
// coverage, plus every allele tied with it.
type VoteOnlyResult struct {
	Locus    string
	Label    string
	Votes    int64
	TiedWith []string
}

// VoteOnly computes the vote-only diagnostic result for one locus,
// independent of CallAllele.
func VoteOnly(locus Locus, votesPerAllele []int64) VoteOnlyResult {
	if len(votesPerAllele) == 0 {
		return VoteOnlyResult{Locus: locus.Name, Label: "0"}
	}
	best := votesPerAllele[0]
	for _, v := range votesPerAllele {
		if v > best {
			best = v
		}
	}
	var tied []string
	bestAllele := 0
	for i, v := range votesPerAllele {
		if v == best {
			if bestAllele == 0 {
				bestAllele = i + 1
			}
			tied = append(tied, locus.ExternalID(i+1))
		}
	}
	return VoteOnlyResult{
		Locus:    locus.Name,
		Label:    locus.ExternalID(bestAllele),
		Votes:    best,
		TiedWith: tied,
	}
}
