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

// ReadIterator yields read sequences one at a time. Reading FASTQ/FASTA
// is an external collaborator's concern; package reads provides one
// implementation.
type ReadIterator interface {
	// Next returns the next read sequence. ok is false once the iterator
	// is exhausted; err is non-nil only on a genuine read failure.
	Next() (seq []byte, ok bool, err error)
}

// CountRestricted streams reads from it and counts canonical k-mers that
// already exist as keys of index; k-mers outside the index are dropped.
// Malformed bases cause that k-mer to be skipped, never a failure; reads
// shorter than k contribute nothing.
func CountRestricted(it ReadIterator, k int, index Index) (Counts, error) {
	counts := make(Counts)
	for {
		read, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		countRead(read, k, counts, index)
	}
	return counts, nil
}

// CountUnrestricted streams reads from it and counts every canonical
// k-mer encountered, regardless of whether it appears in any index.
// Diagnostic use only; calling always works with CountRestricted.
func CountUnrestricted(it ReadIterator, k int) (Counts, error) {
	counts := make(Counts)
	for {
		read, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		countRead(read, k, counts, nil)
	}
	return counts, nil
}

// countRead slides a width-k window across read by one base at a time. A
// nil index means unrestricted counting; a non-nil index restricts
// counting to k-mers already present as its keys.
func countRead(read []byte, k int, counts Counts, index Index) {
	if len(read) < k {
		return
	}
	for i := 0; i+k <= len(read); i++ {
		mer := read[i : i+k]
		code, err := kmer.New(mer)
		if err != nil {
			continue // invalid base: skip this k-mer
		}
		canon := code.Canonical().Code

		if index != nil {
			if _, present := index[canon]; !present {
				continue
			}
		}
		counts[canon]++
	}
}
