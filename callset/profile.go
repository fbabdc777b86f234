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

// ProfileRow is one row of a sequence-type profile table: a combination
// of allele ids at every locus mapped to a sequence type and an
// optional clonal complex.
type ProfileRow struct {
	ST      string
	Alleles []string
	CC      string
}

// MatchProfile linear-scans rows for the first whose allele columns
// match calledAlleles exactly as strings, returning its (ST, CC). An
// unknown combination yields ("0", ""), never an error.
func MatchProfile(rows []ProfileRow, calledAlleles []string) (st string, cc string) {
	for _, row := range rows {
		if len(row.Alleles) != len(calledAlleles) {
			continue
		}
		match := true
		for i, a := range row.Alleles {
			if a != calledAlleles[i] {
				match = false
				break
			}
		}
		if match {
			return row.ST, row.CC
		}
	}
	return "0", ""
}
