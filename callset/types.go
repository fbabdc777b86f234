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

// Package callset is the allele-calling engine: the voting model, coverage
// analysis and gap-correction search, all operating over a single shared
// k-mer count table. Every exported function here is pure given its inputs
// and does no I/O or logging; callers own reading reads/databases and
// writing reports, which keeps per-locus calling safe to run concurrently.
package callset

import "fmt"

// Counts maps a canonical k-mer code to its observed count.
type Counts map[uint64]int

// Posting is one entry of the k-mer index: the locus/weight/allele-set
// triple a canonical k-mer contributes to voting. Locus is a 0-based
// locus index; Alleles holds 1-based internal allele indices within that
// locus. A negative Weight makes the k-mer vote against the listed
// alleles.
type Posting struct {
	Locus   int
	Weight  int32
	Alleles []int
}

// Index maps a canonical k-mer code to its ordered postings.
type Index map[uint64][]Posting

// Locus describes one typed locus: its name, allele count, and the
// mapping from internal allele index to external identifier.
type Locus struct {
	Name        string
	NumAlleles  int
	ExternalIDs []string // 1-based: ExternalIDs[i-1] is the external id of internal allele i
}

// ExternalID returns the external allele identifier for a 1-based internal
// allele index, or "" if out of range.
func (l Locus) ExternalID(allele int) string {
	if allele < 1 || allele > len(l.ExternalIDs) {
		return ""
	}
	return l.ExternalIDs[allele-1]
}

// AlleleSequences loads allele sequences for a locus, 1-based by internal
// index. The engine never reads FASTA itself; callers supply an
// implementation backed by the locus's candidate FASTA file.
type AlleleSequences interface {
	// Sequence returns the candidate allele sequence at 1-based index i.
	Sequence(i int) ([]byte, error)
	// Len returns the number of candidate alleles available.
	Len() int
}

// Gap is a maximal run of consecutive uncovered k-mer positions, 1-based
// and inclusive on both ends.
type Gap struct {
	Start, End int
}

// AlleleCoverage is the transient coverage record for one candidate
// allele: its vote total, minimum k-mer depth, covered/uncovered counts
// and merged gap list.
type AlleleCoverage struct {
	Allele         int
	Votes          int64
	MinDepth       int
	CoveredKmers   int
	UncoveredKmers int
	Gaps           []Gap
}

// Coverage returns covered/(covered+uncovered), or 0 when the sequence
// produced no k-mers at all.
func (c AlleleCoverage) Coverage() float64 {
	total := c.CoveredKmers + c.UncoveredKmers
	if total == 0 {
		return 0
	}
	return float64(c.CoveredKmers) / float64(total)
}

// MutationKind tags the variant carried by a MutationEvent.
type MutationKind int

const (
	// Substitution replaces one base at Pos.
	Substitution MutationKind = iota
	// Insertion adds one base next to Pos: before it when found at a
	// covered->uncovered transition, right after it when found at an
	// uncovered->covered transition.
	Insertion
	// Deletion removes Length bases: starting at Pos when found at a
	// covered->uncovered transition, ending just before Pos when found
	// at an uncovered->covered transition.
	Deletion
)

func (k MutationKind) String() string {
	switch k {
	case Substitution:
		return "Substitution"
	case Insertion:
		return "Insertion"
	case Deletion:
		return "Deletion"
	default:
		return "Unknown"
	}
}

// MutationEvent is one edit applied while correcting a template allele
// into a novel, k-mer-covered sequence. Pos is 1-based within the
// corrected sequence at the time of reporting.
type MutationEvent struct {
	Kind MutationKind
	Pos  int

	// Substitution
	From, To byte

	// Insertion
	Base byte

	// Deletion
	Length int
}

// Describe renders a human-readable form of the event, used in
// special-case FASTA descriptions and novel-allele reports.
func (e MutationEvent) Describe() string {
	switch e.Kind {
	case Substitution:
		return fmt.Sprintf("S %d %c->%c", e.Pos, e.From, e.To)
	case Insertion:
		return fmt.Sprintf("I %d +%c", e.Pos, e.Base)
	case Deletion:
		return fmt.Sprintf("D %d -%d", e.Pos, e.Length)
	default:
		return "?"
	}
}

// NovelAllele is a template allele edited to cover its gaps. An empty
// UncorrectedGaps means every k-mer of Sequence is supported at the
// correction threshold.
type NovelAllele struct {
	TemplateExternalID string
	Sequence           []byte
	NMutations         int
	Mutations          []MutationEvent
	MinDepth           int
	UncorrectedGaps    []Gap
}

// CallFlag is the single-character status flag appended to an
// AlleleCall's label: "", "+", "-" or "?".
type CallFlag string

const (
	FlagNone      CallFlag = ""
	FlagMultiple  CallFlag = "+"
	FlagPartial   CallFlag = "-"
	FlagUncovered CallFlag = "?"
)

// CallOutcome is the closed set of AlleleCall variants.
type CallOutcome int

const (
	Absent CallOutcome = iota
	Single
	Multiple
	Novel
	Partial
	Uncovered
)

// AlleleCall is the result of calling one locus.
type AlleleCall struct {
	Outcome  CallOutcome
	Label    string // external allele id, "0" (absent), or "N" (novel)
	Flag     CallFlag
	Coverage float64
	Depth    int
	Report   string

	NovelAllele *NovelAllele

	// AllelesToCheck carries candidate alleles worth flagging in the
	// special-cases FASTA stream.
	AllelesToCheck []AlleleCoverage
}
