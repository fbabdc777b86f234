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
	"bytes"
	"testing"
)

type fakeAlleleSeqs struct {
	seqs [][]byte
}

func (f *fakeAlleleSeqs) Sequence(i int) ([]byte, error) {
	return f.seqs[i-1], nil
}

func (f *fakeAlleleSeqs) Len() int { return len(f.seqs) }

func TestCallAlleleAbsentWhenNoVotes(t *testing.T) {
	locus := Locus{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}
	call := CallAllele(locus, []int64{0}, 0, &fakeAlleleSeqs{seqs: [][]byte{[]byte("AAAA")}}, Counts{}, CallOptions{K: 4, Threshold: 6, MaxMutations: 3})
	if call.Outcome != Absent {
		t.Fatalf("outcome=%v want Absent", call.Outcome)
	}
	if call.Label != "0" {
		t.Fatalf("label=%q want 0", call.Label)
	}
}

func TestCallAlleleAbsentWhenCandidateShorterThanK(t *testing.T) {
	k := 4
	locus := Locus{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}
	// The only candidate is shorter than k, so it has no k-mers to judge;
	// it must come out absent, not as a zero-mutation novel allele.
	counts := truthCounts(t, "ACGTACGT", k, 10)
	call := CallAllele(locus, []int64{7}, 7, &fakeAlleleSeqs{seqs: [][]byte{[]byte("ACG")}}, counts, CallOptions{K: k, Threshold: 6, MaxMutations: 3})
	if call.Outcome != Absent {
		t.Fatalf("outcome=%v want Absent", call.Outcome)
	}
	if call.Label != "0" {
		t.Fatalf("label=%q want 0", call.Label)
	}
	if call.NovelAllele != nil {
		t.Fatalf("expected no novel allele, got %+v", call.NovelAllele)
	}
}

func TestCallAlleleSinglePresent(t *testing.T) {
	k := 4
	allele := "AAACCCGGG"
	locus := Locus{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}
	counts := truthCounts(t, allele, k, 10)
	votes := []int64{100}

	call := CallAllele(locus, votes, 100, &fakeAlleleSeqs{seqs: [][]byte{[]byte(allele)}}, counts, CallOptions{K: k, Threshold: 6, MaxMutations: 3})
	if call.Outcome != Single {
		t.Fatalf("outcome=%v want Single", call.Outcome)
	}
	if call.Label != "1" {
		t.Fatalf("label=%q want 1", call.Label)
	}
	if call.Flag != FlagNone {
		t.Fatalf("flag=%q want none", call.Flag)
	}
}

func TestCallAlleleMultiplePresent(t *testing.T) {
	k := 4
	a1 := "AAACCCGGG"
	a2 := "TTTGGGCCC"
	locus := Locus{Name: "abc", NumAlleles: 2, ExternalIDs: []string{"1", "2"}}
	counts := truthCounts(t, a1, k, 10)
	for kmerCode, depth := range truthCounts(t, a2, k, 10) {
		counts[kmerCode] = depth
	}
	votes := []int64{100, 90}

	call := CallAllele(locus, votes, 190, &fakeAlleleSeqs{seqs: [][]byte{[]byte(a1), []byte(a2)}}, counts, CallOptions{K: k, Threshold: 6, MaxMutations: 3})
	if call.Outcome != Multiple {
		t.Fatalf("outcome=%v want Multiple", call.Outcome)
	}
	if call.Flag != FlagMultiple {
		t.Fatalf("flag=%q want +", call.Flag)
	}
	if call.Label != "1" {
		t.Fatalf("label=%q want 1 (higher votes)", call.Label)
	}
	if len(call.AllelesToCheck) != 2 {
		t.Fatalf("expected both covered alleles flagged, got %d", len(call.AllelesToCheck))
	}
}

func TestCallAlleleUncoveredWhenFarFromAnyCandidate(t *testing.T) {
	k := 4
	locus := Locus{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}
	// No supporting counts at all for a fairly long candidate: every
	// k-mer is uncovered, well beyond k*max_mutations.
	candidate := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
	call := CallAllele(locus, []int64{5}, 5, &fakeAlleleSeqs{seqs: [][]byte{[]byte(candidate)}}, Counts{}, CallOptions{K: k, Threshold: 6, MaxMutations: 1})
	if call.Outcome != Uncovered {
		t.Fatalf("outcome=%v want Uncovered", call.Outcome)
	}
	if call.Flag != FlagUncovered {
		t.Fatalf("flag=%q want ?", call.Flag)
	}
}

func TestCallAlleleNovelSingleSubstitution(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	template := "AAACGCAAA" // single substitution vs the sequenced sample at 0-based index 4: C -> G
	locus := Locus{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}
	counts := truthCounts(t, truth, k, 10)

	call := CallAllele(locus, []int64{100}, 100, &fakeAlleleSeqs{seqs: [][]byte{[]byte(template)}}, counts, CallOptions{K: k, Threshold: 6, MaxMutations: 3})

	if call.Outcome != Novel {
		t.Fatalf("outcome=%v want Novel", call.Outcome)
	}
	if call.Label != "N" {
		t.Fatalf("label=%q want N", call.Label)
	}
	if call.NovelAllele == nil {
		t.Fatal("expected a NovelAllele to be attached")
	}
	if !bytes.Equal(call.NovelAllele.Sequence, []byte(truth)) {
		t.Fatalf("novel sequence=%s want %s", call.NovelAllele.Sequence, truth)
	}
	if len(call.NovelAllele.UncorrectedGaps) != 0 {
		t.Fatalf("expected no uncorrected gaps, got %v", call.NovelAllele.UncorrectedGaps)
	}
	if call.NovelAllele.NMutations != 1 {
		t.Fatalf("NMutations=%d want 1", call.NovelAllele.NMutations)
	}
	if len(call.NovelAllele.Mutations) != 1 || call.NovelAllele.Mutations[0].Kind != Substitution {
		t.Fatalf("expected exactly one Substitution mutation, got %+v", call.NovelAllele.Mutations)
	}
}

func TestCallAllelePartialUncorrectableGap(t *testing.T) {
	k := 4
	template := "AAACCCTTTGGG"
	locus := Locus{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}

	// No reads at all support this locus's k-mers: every candidate edit
	// CorrectTemplate tries is rejected, so the gap stays uncorrected.
	call := CallAllele(locus, []int64{5}, 5, &fakeAlleleSeqs{seqs: [][]byte{[]byte(template)}}, Counts{}, CallOptions{K: k, Threshold: 2, MaxMutations: 3})

	if call.Outcome != Partial {
		t.Fatalf("outcome=%v want Partial", call.Outcome)
	}
	if call.Flag != FlagPartial {
		t.Fatalf("flag=%q want -", call.Flag)
	}
	if call.Label != "1" {
		t.Fatalf("label=%q want 1 (template external id)", call.Label)
	}
	if call.Coverage >= 1 {
		t.Fatalf("coverage=%v want <1", call.Coverage)
	}
	if len(call.AllelesToCheck) == 0 {
		t.Fatal("expected the template candidate to be flagged for review")
	}
}

func TestVoteOnlyPicksHighestAndTies(t *testing.T) {
	locus := Locus{Name: "abc", NumAlleles: 3, ExternalIDs: []string{"1", "2", "3"}}
	result := VoteOnly(locus, []int64{10, 10, 3})
	if result.Votes != 10 {
		t.Fatalf("votes=%d want 10", result.Votes)
	}
	if len(result.TiedWith) != 2 {
		t.Fatalf("expected two tied alleles, got %v", result.TiedWith)
	}
}
