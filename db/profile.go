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

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"

	"kmermlst/callset"
)

// ProfileTable is an optional sequence-type profile table: each row maps
// a combination of allele ids at every locus to a sequence type and,
// optionally, a clonal complex.
type ProfileTable struct {
	NumLoci int
	Rows    []ProfileRow
}

// ProfileRow is one row of the profile table.
type ProfileRow struct {
	ST      string
	Alleles []string // len == NumLoci, external allele ids as strings
	CC      string   // clonal complex, "" if the table has no CC column
}

// Match returns the (ST, CC) of the first row whose allele columns match
// calledAlleles exactly (string comparison), or ("0", "") if none match.
// The comparison itself lives in package callset; this just adapts the
// decoded on-disk rows to that pure function.
func (p *ProfileTable) Match(calledAlleles []string) (st string, cc string) {
	if p == nil {
		return "0", ""
	}
	rows := make([]callset.ProfileRow, len(p.Rows))
	for i, r := range p.Rows {
		rows[i] = callset.ProfileRow{ST: r.ST, Alleles: r.Alleles, CC: r.CC}
	}
	return callset.MatchProfile(rows, calledAlleles)
}

// ParseProfileTable parses a tab-separated profile table: first column ST,
// next numLoci columns allele ids, optional trailing clonal-complex column.
func ParseProfileTable(r io.Reader, numLoci int) (*ProfileTable, error) {
	table := &ProfileTable{NumLoci: numLoci}
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if first {
			first = false
			// header row, e.g. "ST\tlocus1\tlocus2\t...\tclonal_complex"
			continue
		}
		if len(fields) < numLoci+1 {
			return nil, ErrProfileColumns
		}
		row := ProfileRow{
			ST:      fields[0],
			Alleles: append([]string(nil), fields[1:numLoci+1]...),
		}
		if len(fields) > numLoci+1 {
			row.CC = fields[numLoci+1]
		}
		table.Rows = append(table.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

func writeProfile(w io.Writer, p *ProfileTable) error {
	if p == nil {
		return binary.Write(w, be, uint8(0))
	}
	if err := binary.Write(w, be, uint8(1)); err != nil {
		return err
	}
	if err := binary.Write(w, be, uint32(p.NumLoci)); err != nil {
		return err
	}
	if err := binary.Write(w, be, uint32(len(p.Rows))); err != nil {
		return err
	}
	for _, row := range p.Rows {
		if err := writeString(w, row.ST); err != nil {
			return err
		}
		for _, a := range row.Alleles {
			if err := writeString(w, a); err != nil {
				return err
			}
		}
		if err := writeString(w, row.CC); err != nil {
			return err
		}
	}
	return nil
}

func readProfile(br byteReader) (*ProfileTable, error) {
	var present uint8
	if err := binary.Read(br, be, &present); err != nil {
		return nil, err
	}
	if present == 0 {
		return nil, nil
	}
	var numLoci, nRows uint32
	if err := binary.Read(br, be, &numLoci); err != nil {
		return nil, err
	}
	if err := binary.Read(br, be, &nRows); err != nil {
		return nil, err
	}
	table := &ProfileTable{NumLoci: int(numLoci), Rows: make([]ProfileRow, nRows)}
	for i := range table.Rows {
		st, err := readString(br)
		if err != nil {
			return nil, err
		}
		alleles := make([]string, numLoci)
		for j := range alleles {
			if alleles[j], err = readString(br); err != nil {
				return nil, err
			}
		}
		cc, err := readString(br)
		if err != nil {
			return nil, err
		}
		table.Rows[i] = ProfileRow{ST: st, Alleles: alleles, CC: cc}
	}
	return table, nil
}
