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

package db

import "kmermlst/callset"

// CallsetIndex converts the decoded on-disk index into the shape
// package callset operates over. The engine never parses the database
// format itself; this is the one place postings cross from the wire
// representation into the calling engine's pure-function world.
func (d *Database) CallsetIndex() callset.Index {
	idx := make(callset.Index, len(d.Index))
	for code, postings := range d.Index {
		converted := make([]callset.Posting, len(postings))
		for i, p := range postings {
			converted[i] = callset.Posting{Locus: p.Locus, Weight: p.Weight, Alleles: p.Alleles}
		}
		idx[code] = converted
	}
	return idx
}

// CallsetLoci converts the decoded locus descriptors into the shape
// package callset operates over.
func (d *Database) CallsetLoci() []callset.Locus {
	loci := make([]callset.Locus, len(d.Loci))
	for i, l := range d.Loci {
		loci[i] = callset.Locus{Name: l.Name, NumAlleles: l.NumAlleles, ExternalIDs: l.ExternalIDs}
	}
	return loci
}
