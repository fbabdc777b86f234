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

package reads

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// CandidateFASTA lazily loads candidate allele sequences from a
// per-locus FASTA file, the i-th record (1-based) being the candidate
// allele with internal index i. Loaded sequences are cached since
// calling and gap correction re-query the same handful of top
// candidates repeatedly.
type CandidateFASTA struct {
	path string

	mu        sync.Mutex
	loaded    bool
	sequences [][]byte
}

// NewCandidateFASTA returns a lazily-loaded callset.AlleleSequences
// backed by path; nothing is read until the first Sequence or Len call.
func NewCandidateFASTA(path string) *CandidateFASTA {
	return &CandidateFASTA{path: path}
}

func (c *CandidateFASTA) ensureLoaded() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	reader, err := fastx.NewDefaultReader(c.path)
	if err != nil {
		return errors.Wrapf(err, "open candidate FASTA %s", c.path)
	}
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return errors.Wrapf(err, "read candidate FASTA %s", c.path)
		}
		seq := make([]byte, len(record.Seq.Seq))
		copy(seq, record.Seq.Seq)
		c.sequences = append(c.sequences, seq)
	}
	c.loaded = true
	return nil
}

// Sequence returns the candidate allele sequence at 1-based index i.
func (c *CandidateFASTA) Sequence(i int) ([]byte, error) {
	if err := c.ensureLoaded(); err != nil {
		return nil, err
	}
	if i < 1 || i > len(c.sequences) {
		return nil, errors.Errorf("reads: allele index %d out of range (1..%d)", i, len(c.sequences))
	}
	return c.sequences[i-1], nil
}

// Len returns the number of candidate alleles available, triggering a
// load if one hasn't happened yet.
func (c *CandidateFASTA) Len() int {
	if err := c.ensureLoaded(); err != nil {
		return 0
	}
	return len(c.sequences)
}
