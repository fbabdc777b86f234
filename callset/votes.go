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

// Votes holds the per-locus and per-allele vote totals.
type Votes struct {
	// PerAllele[locus][allele-1] is the signed vote total for that
	// allele.
	PerAllele [][]int64
	// PerLocus[locus] is the nonnegative total of |weight*count| across
	// every supporting k-mer of that locus.
	PerLocus []uint64
}

// AggregateVotes joins counts against index to produce per-locus and
// per-allele vote totals. It is a pure function of the
// multiset of (k-mer, count) pairs: permuting counts' iteration order
// yields identical results, since addition of int64/uint64 is
// commutative and associative.
func AggregateVotes(counts Counts, index Index, loci []Locus) Votes {
	votes := Votes{
		PerAllele: make([][]int64, len(loci)),
		PerLocus:  make([]uint64, len(loci)),
	}
	for l, locus := range loci {
		votes.PerAllele[l] = make([]int64, locus.NumAlleles)
	}

	for kmer, count := range counts {
		postings, ok := index[kmer]
		if !ok {
			continue
		}
		for _, p := range postings {
			if p.Locus < 0 || p.Locus >= len(loci) {
				continue
			}
			v := int64(p.Weight) * int64(count)
			abs := v
			if abs < 0 {
				abs = -abs
			}
			votes.PerLocus[p.Locus] += uint64(abs)
			for _, a := range p.Alleles {
				if a < 1 || a > len(votes.PerAllele[p.Locus]) {
					continue
				}
				votes.PerAllele[p.Locus][a-1] += v
			}
		}
	}
	return votes
}
