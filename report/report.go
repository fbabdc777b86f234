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

// Package report writes the tab-separated and FASTA output streams of a
// calling run. Every writer takes a plain io.Writer opened upstream
// (normally via xopen so ".gz" output paths are compressed
// transparently); this package does no file handling of its own.
package report

import (
	"fmt"
	"io"
	"sort"

	"kmermlst/callset"
)

// SampleCall is one locus's outcome for one sample, the unit both the
// calls table and coverage report are built from.
type SampleCall struct {
	Sample string
	Locus  string
	Call   callset.AlleleCall
}

// WriteCallsTable writes the main calls table: Sample, <locus1..locusL>,
// ST, clonal_complex, one row per sample. loci fixes column order; calls
// must carry exactly one entry per (sample, locus).
func WriteCallsTable(w io.Writer, loci []string, samples []string, calls map[string]map[string]callset.AlleleCall, sts map[string]string, ccs map[string]string) error {
	bw := newTSVWriter(w)
	header := append([]string{"Sample"}, loci...)
	header = append(header, "ST", "clonal_complex")
	if err := bw.row(header); err != nil {
		return err
	}
	for _, sample := range samples {
		row := make([]string, 0, len(loci)+3)
		row = append(row, sample)
		for _, locus := range loci {
			call := calls[sample][locus]
			row = append(row, string(call.Label)+string(call.Flag))
		}
		row = append(row, sts[sample], ccs[sample])
		if err := bw.row(row); err != nil {
			return err
		}
	}
	return bw.err
}

// WriteCoverageReport writes the per-call coverage table: Sample, Locus,
// Coverage, MinKmerDepth, Call.
func WriteCoverageReport(w io.Writer, calls []SampleCall) error {
	bw := newTSVWriter(w)
	if err := bw.row([]string{"Sample", "Locus", "Coverage", "MinKmerDepth", "Call"}); err != nil {
		return err
	}
	for _, c := range calls {
		depth := fmt.Sprintf("%d", c.Call.Depth)
		if c.Call.Depth == callset.SentinelDepth {
			depth = "NA"
		}
		row := []string{
			c.Sample,
			c.Locus,
			fmt.Sprintf("%.4f", c.Call.Coverage),
			depth,
			string(c.Call.Label) + string(c.Call.Flag),
		}
		if err := bw.row(row); err != nil {
			return err
		}
	}
	return bw.err
}

// WriteSpecialCasesFASTA writes a FASTA record for every allele a call
// flagged via AllelesToCheck; calls with an empty list emit nothing.
func WriteSpecialCasesFASTA(w io.Writer, sample, locus string, call callset.AlleleCall, sequences func(allele int) ([]byte, error)) error {
	if len(call.AllelesToCheck) == 0 {
		return nil
	}
	for _, ac := range call.AllelesToCheck {
		var seq []byte
		var err error
		if call.NovelAllele != nil && ac.Allele == 0 {
			seq = call.NovelAllele.Sequence
		} else {
			seq, err = sequences(ac.Allele)
			if err != nil {
				return err
			}
		}
		desc := fmt.Sprintf("depth=%d votes=%d coverage=%.4f", ac.MinDepth, ac.Votes, ac.Coverage())
		if _, err := fmt.Fprintf(w, ">%s_%s %s\n%s\n", locus, call.Label, desc, seq); err != nil {
			return err
		}
	}
	return nil
}

// WriteVoteOnlyCalls writes the diagnostic calls table sourced from the
// vote-only path, same shape as the main calls table minus ST/CC.
func WriteVoteOnlyCalls(w io.Writer, loci []string, samples []string, results map[string]map[string]callset.VoteOnlyResult) error {
	bw := newTSVWriter(w)
	header := append([]string{"Sample"}, loci...)
	if err := bw.row(header); err != nil {
		return err
	}
	for _, sample := range samples {
		row := make([]string, 0, len(loci)+1)
		row = append(row, sample)
		for _, locus := range loci {
			row = append(row, results[sample][locus].Label)
		}
		if err := bw.row(row); err != nil {
			return err
		}
	}
	return bw.err
}

// VoteDetail is one locus's top-N allele votes for the vote details
// stream.
type VoteDetail struct {
	Sample     string
	Locus      string
	LocusVotes uint64
	Alleles    []string // external ids
	Votes      []int64
}

// WriteVoteDetails writes Sample, Locus, TotalLocusVotes,
// Allele(votes),... keeping the top 20 alleles per locus.
func WriteVoteDetails(w io.Writer, details []VoteDetail) error {
	bw := newTSVWriter(w)
	for _, d := range details {
		type pair struct {
			label string
			votes int64
		}
		pairs := make([]pair, len(d.Alleles))
		for i := range d.Alleles {
			pairs[i] = pair{d.Alleles[i], d.Votes[i]}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].votes > pairs[j].votes })
		if len(pairs) > 20 {
			pairs = pairs[:20]
		}
		row := []string{d.Sample, d.Locus, fmt.Sprintf("%d", d.LocusVotes)}
		for _, p := range pairs {
			row = append(row, fmt.Sprintf("%s(%d)", p.label, p.votes))
		}
		if err := bw.row(row); err != nil {
			return err
		}
	}
	return bw.err
}

// TieRecord carries one locus's vote-only result for the ties stream.
type TieRecord struct {
	Sample string
	Locus  string
	Result callset.VoteOnlyResult
}

// WriteTies writes Sample, Locus, TiedAlleles rows, only for loci whose
// vote-only result has more than one tied allele.
func WriteTies(w io.Writer, results []TieRecord) error {
	bw := newTSVWriter(w)
	if err := bw.row([]string{"Sample", "Locus", "TiedAlleles"}); err != nil {
		return err
	}
	for _, r := range results {
		if len(r.Result.TiedWith) < 2 {
			continue
		}
		row := []string{r.Sample, r.Locus}
		for _, a := range r.Result.TiedWith {
			row = append(row, a)
		}
		if err := bw.row(row); err != nil {
			return err
		}
	}
	return bw.err
}

// tsvWriter accumulates the first error across a sequence of row
// writes so callers can check it once at the end.
type tsvWriter struct {
	w   io.Writer
	err error
}

func newTSVWriter(w io.Writer) *tsvWriter {
	return &tsvWriter{w: w}
}

func (t *tsvWriter) row(fields []string) error {
	if t.err != nil {
		return t.err
	}
	for i, f := range fields {
		if i > 0 {
			if _, err := io.WriteString(t.w, "\t"); err != nil {
				t.err = err
				return err
			}
		}
		if _, err := io.WriteString(t.w, f); err != nil {
			t.err = err
			return err
		}
	}
	_, err := io.WriteString(t.w, "\n")
	if err != nil {
		t.err = err
	}
	return err
}
