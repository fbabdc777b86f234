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

package cmd

import "testing"

func TestSplitCommaList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{"a, b ,,c", []string{"a", "b", "c"}},
	}
	for _, c := range cases {
		got := splitCommaList(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("splitCommaList(%q)=%v want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("splitCommaList(%q)=%v want %v", c.in, got, c.want)
			}
		}
	}
}

func TestCheckFilesSkipsStdin(t *testing.T) {
	if err := checkFiles("-"); err != nil {
		t.Fatalf("stdin should never fail existence check: %s", err)
	}
}

func TestCheckFilesMissingFile(t *testing.T) {
	if err := checkFiles("/no/such/file/this-does-not-exist.fastq"); err == nil {
		t.Fatal("expected an error for a nonexistent file")
	}
}

func TestExpandPathPassesThroughStdin(t *testing.T) {
	got, err := expandPath("-")
	if err != nil {
		t.Fatal(err)
	}
	if got != "-" {
		t.Fatalf("expandPath(\"-\")=%q want \"-\"", got)
	}
}
