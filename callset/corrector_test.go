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

func TestCorrectTemplateNoGapsLeavesSequenceUnchanged(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	counts := truthCounts(t, truth, k, 10)

	novel := CorrectTemplate([]byte(truth), counts, k, 6, 3)
	if novel.NMutations != 0 {
		t.Fatalf("NMutations=%d want 0", novel.NMutations)
	}
	if len(novel.UncorrectedGaps) != 0 {
		t.Fatalf("expected no uncorrected gaps, got %v", novel.UncorrectedGaps)
	}
	if !bytes.Equal(novel.Sequence, []byte(truth)) {
		t.Fatalf("Sequence=%s want unchanged %s", novel.Sequence, truth)
	}
}

func TestCorrectTemplateFixesSubstitution(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	template := "AAACGCAAA" // single substitution vs truth
	counts := truthCounts(t, truth, k, 10)

	novel := CorrectTemplate([]byte(template), counts, k, 6, 3)
	if !bytes.Equal(novel.Sequence, []byte(truth)) {
		t.Fatalf("Sequence=%s want corrected to %s", novel.Sequence, truth)
	}
	if novel.NMutations == 0 {
		t.Fatal("expected at least one mutation to be applied")
	}
	if len(novel.UncorrectedGaps) != 0 {
		t.Fatalf("expected the gap to be fully corrected, got %v", novel.UncorrectedGaps)
	}
}

func TestCorrectTemplatePreservesUncorrectableGap(t *testing.T) {
	k := 3
	truth := "AAACCCAAA"
	// No counts at all: nothing is ever supported, so every gap is
	// uncorrectable within any mutation budget.
	novel := CorrectTemplate([]byte(truth), Counts{}, k, 6, 3)
	if len(novel.UncorrectedGaps) == 0 {
		t.Fatal("expected at least one uncorrected gap with an empty count table")
	}
}
