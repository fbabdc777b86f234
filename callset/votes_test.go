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

import "testing"

func TestAggregateVotesSumsPerAlleleAndPerLocus(t *testing.T) {
	loci := []Locus{{Name: "abc", NumAlleles: 2, ExternalIDs: []string{"1", "2"}}}
	k1 := canon(t, "ACGT")
	k2 := canon(t, "TTTT")
	index := Index{
		k1: []Posting{{Locus: 0, Weight: 1, Alleles: []int{1, 2}}},
		k2: []Posting{{Locus: 0, Weight: 2, Alleles: []int{1}}},
	}
	counts := Counts{k1: 3, k2: 5}

	votes := AggregateVotes(counts, index, loci)
	if votes.PerAllele[0][0] != 3+10 {
		t.Fatalf("allele 1 votes=%d want 13", votes.PerAllele[0][0])
	}
	if votes.PerAllele[0][1] != 3 {
		t.Fatalf("allele 2 votes=%d want 3", votes.PerAllele[0][1])
	}
	if votes.PerLocus[0] != 3+10 {
		t.Fatalf("locus votes=%d want 13", votes.PerLocus[0])
	}
}

func TestAggregateVotesIgnoresUnindexedKmers(t *testing.T) {
	loci := []Locus{{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}}
	index := Index{}
	counts := Counts{canon(t, "ACGT"): 7}

	votes := AggregateVotes(counts, index, loci)
	if votes.PerLocus[0] != 0 {
		t.Fatalf("expected zero locus votes for an unindexed k-mer, got %d", votes.PerLocus[0])
	}
}

func TestAggregateVotesNegativeWeight(t *testing.T) {
	loci := []Locus{{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}}
	k1 := canon(t, "ACGT")
	index := Index{k1: []Posting{{Locus: 0, Weight: -2, Alleles: []int{1}}}}
	counts := Counts{k1: 4}

	votes := AggregateVotes(counts, index, loci)
	if votes.PerAllele[0][0] != -8 {
		t.Fatalf("allele votes=%d want -8", votes.PerAllele[0][0])
	}
	if votes.PerLocus[0] != 8 {
		t.Fatalf("locus votes should be the unsigned magnitude, got %d", votes.PerLocus[0])
	}
}

func TestAggregateVotesOrderInsensitive(t *testing.T) {
	loci := []Locus{{Name: "abc", NumAlleles: 1, ExternalIDs: []string{"1"}}}
	k1 := canon(t, "ACGT")
	k2 := canon(t, "TTTT")
	index := Index{
		k1: []Posting{{Locus: 0, Weight: 1, Alleles: []int{1}}},
		k2: []Posting{{Locus: 0, Weight: 1, Alleles: []int{1}}},
	}
	a := AggregateVotes(Counts{k1: 2, k2: 3}, index, loci)
	b := AggregateVotes(Counts{k2: 3, k1: 2}, index, loci)
	if a.PerAllele[0][0] != b.PerAllele[0][0] || a.PerLocus[0] != b.PerLocus[0] {
		t.Fatal("vote aggregation must be insensitive to map iteration order")
	}
}
