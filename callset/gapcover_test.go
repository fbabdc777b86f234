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

import (
	"bytes"
	"testing"
)

// truthCounts builds a Counts table from every canonical k-mer window of
// seq, so seq (and only edits that reproduce one of its windows) will be
// considered supported.
func truthCounts(t *testing.T, seq string, k, depth int) Counts {
	t.Helper()
	counts := make(Counts)
	for i := 0; i+k <= len(seq); i++ {
		counts[canon(t, seq[i:i+k])] = depth
	}
	return counts
}

func TestCoverGapAlreadySupportedNeedsNoMutation(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	counts := truthCounts(t, truth, k, 10)
	result := CoverGap([]byte(truth), counts, k, 6, 3)
	if result == nil {
		t.Fatal("expected a result for an already fully supported fragment")
	}
	if result.NMutations != 0 {
		t.Fatalf("NMutations=%d want 0", result.NMutations)
	}
	if !bytes.Equal(result.Sequence, []byte(truth)) {
		t.Fatalf("Sequence=%s want unchanged %s", result.Sequence, truth)
	}
}

func TestCoverGapFindsSingleSubstitution(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	fragment := "AAACGCAAA" // single substitution at 0-based index 4: C -> G
	counts := truthCounts(t, truth, k, 10)

	result := CoverGap([]byte(fragment), counts, k, 6, 3)
	if result == nil {
		t.Fatal("expected CoverGap to find a correcting edit")
	}
	if result.NMutations != 1 {
		t.Fatalf("NMutations=%d want 1", result.NMutations)
	}
	if !bytes.Equal(result.Sequence, []byte(truth)) {
		t.Fatalf("Sequence=%s want %s", result.Sequence, truth)
	}
}

func TestCoverGapReturnsNilWhenBudgetExhausted(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	fragment := "AAACGCAAA"
	counts := truthCounts(t, truth, k, 10)

	result := CoverGap([]byte(fragment), counts, k, 6, 0)
	if result != nil {
		t.Fatalf("expected nil with a zero mutation budget, got %+v", result)
	}
}

func TestCoverGapRespectsThreshold(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	counts := truthCounts(t, truth, k, 2) // below the threshold we'll query with
	result := CoverGap([]byte(truth), counts, k, 6, 3)
	if result != nil {
		t.Fatalf("expected nil when every k-mer is under threshold, got %+v", result)
	}
}

func TestCoverGapFindsDownstreamDeletion(t *testing.T) {
	k := 4
	truth := "ACGTATCG"
	fragment := "ACGTGATCG" // one extra base ('G') inserted after index 3
	counts := truthCounts(t, truth, k, 10)

	result := CoverGap([]byte(fragment), counts, k, 6, 3)
	if result == nil {
		t.Fatal("expected CoverGap to find a correcting deletion")
	}
	if result.NMutations != 1 {
		t.Fatalf("NMutations=%d want 1", result.NMutations)
	}
	if !bytes.Equal(result.Sequence, []byte(truth)) {
		t.Fatalf("Sequence=%s want %s", result.Sequence, truth)
	}
	if len(result.Events) != 1 || result.Events[0].Kind != Deletion {
		t.Fatalf("expected a single Deletion event, got %+v", result.Events)
	}
	if result.Events[0].Length != 1 {
		t.Fatalf("Deletion length=%d want 1", result.Events[0].Length)
	}
}

func TestCoverGapFindsSingleInsertion(t *testing.T) {
	k := 4
	truth := "ACGTATCG"
	fragment := "ACGTTCG" // the base at 0-based index 4 of truth ('A') is missing
	counts := truthCounts(t, truth, k, 10)

	result := CoverGap([]byte(fragment), counts, k, 6, 3)
	if result == nil {
		t.Fatal("expected CoverGap to find a correcting insertion")
	}
	if result.NMutations != 1 {
		t.Fatalf("NMutations=%d want 1", result.NMutations)
	}
	if !bytes.Equal(result.Sequence, []byte(truth)) {
		t.Fatalf("Sequence=%s want %s", result.Sequence, truth)
	}
	if len(result.Events) != 1 || result.Events[0].Kind != Insertion {
		t.Fatalf("expected a single Insertion event, got %+v", result.Events)
	}
}

// TestExpandUncoveredToCoveredDeletionBranch drives the "uncovered ->
// covered" deletion branch directly: kmerAtP = "CGT", base 'A' makes the
// shifted k-mer "ACG" supported, and seq[1] == 'A' one position upstream
// lets a length-1 deletion realign the sequence.
func TestExpandUncoveredToCoveredDeletionBranch(t *testing.T) {
	k := 3
	counts := Counts{canon(t, "ACG"): 10}
	cur := gapCoverState{nMut: 0, seq: []byte("TATCGT"), startPos: 0}

	successors := expandUncoveredToCovered(cur, k, 4, counts, 6)

	var found bool
	for _, s := range successors {
		if len(s.events) != 1 || s.events[0].Kind != Deletion {
			continue
		}
		found = true
		if s.nMut != 1 {
			t.Fatalf("nMut=%d want 1", s.nMut)
		}
		if string(s.seq) != "TTCGT" {
			t.Fatalf("seq=%s want TTCGT", s.seq)
		}
		if s.events[0].Pos != 3 || s.events[0].Length != 1 {
			t.Fatalf("unexpected deletion event %+v", s.events[0])
		}
	}
	if !found {
		t.Fatal("expected a Deletion successor from the uncovered->covered transition")
	}
}
