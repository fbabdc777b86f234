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

// Package reads is the sequencing-read collaborator the calling engine
// needs but never touches itself: a lazy iterator over FASTA/FASTQ
// records and a lazy per-locus candidate allele loader, both built on
// github.com/shenwei356/bio/seqio/fastx.
package reads

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
)

// ErrInputMismatch means forward/reverse file counts differ, or a sample
// name cannot be derived from the inputs.
var ErrInputMismatch = errors.New("reads: forward/reverse file count mismatch or sample name undeterminable")

// Reader iterates the sequences of one or more FASTA/FASTQ files (gzip
// transparently handled by fastx's underlying xopen reader), satisfying
// callset.ReadIterator. Multiple files are read in sequence so forward
// and reverse mates of one sample feed one counter; mate pairing itself
// is left to the caller.
type Reader struct {
	files   []string
	fileIdx int
	current *fastx.Reader
}

// NewReader opens an iterator over files, read in order.
func NewReader(files []string) (*Reader, error) {
	if len(files) == 0 {
		return nil, errors.New("reads: no input files")
	}
	return &Reader{files: files}, nil
}

// Next returns the next read sequence across all configured files,
// advancing to the next file transparently at EOF (callset.ReadIterator).
func (r *Reader) Next() ([]byte, bool, error) {
	for {
		if r.current == nil {
			if r.fileIdx >= len(r.files) {
				return nil, false, nil
			}
			fr, err := fastx.NewDefaultReader(r.files[r.fileIdx])
			if err != nil {
				return nil, false, errors.Wrapf(err, "open %s", r.files[r.fileIdx])
			}
			r.current = fr
			r.fileIdx++
		}

		record, err := r.current.Read()
		if err != nil {
			if err == io.EOF {
				r.current = nil
				continue
			}
			return nil, false, err
		}
		return record.Seq.Seq, true, nil
	}
}

// pairedSuffixes are stripped, in order, to derive a bare sample name
// from a forward or reverse mate file name.
var pairedSuffixes = []string{
	"_R1", "_R2", "_1", "_2",
}

// SampleName derives a sample name shared by a forward/reverse file
// pair: the basename with extension and mate-suffix stripped. Returns
// ErrInputMismatch if forward and reverse yield different names, which
// signals the two files do not belong to the same sample.
func SampleName(forward, reverse string) (string, error) {
	f := stripMateSuffix(baseNoExt(forward))
	if reverse == "" {
		if f == "" {
			return "", ErrInputMismatch
		}
		return f, nil
	}
	r := stripMateSuffix(baseNoExt(reverse))
	if f == "" || r == "" || f != r {
		return "", ErrInputMismatch
	}
	return f, nil
}

// PairFiles zips forward and reverse file lists into same-sample pairs,
// requiring equal counts when reverse files are given at all.
func PairFiles(forward, reverse []string) ([][2]string, error) {
	if len(reverse) > 0 && len(forward) != len(reverse) {
		return nil, ErrInputMismatch
	}
	pairs := make([][2]string, len(forward))
	for i, f := range forward {
		r := ""
		if i < len(reverse) {
			r = reverse[i]
		}
		pairs[i] = [2]string{f, r}
	}
	return pairs, nil
}

func baseNoExt(path string) string {
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	for _, ext := range []string{".gz", ".fastq", ".fq", ".fasta", ".fa"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func stripMateSuffix(name string) string {
	for _, suf := range pairedSuffixes {
		if strings.HasSuffix(name, suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name
}
