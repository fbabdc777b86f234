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

// Package kmer implements canonical DNA k-mer encoding over the ACGT
// alphabet, used to key the count table and k-mer index shared by the
// voting, coverage and gap-correction sub-systems.
package kmer

import "errors"

// ErrIllegalBase means a byte outside {A,C,G,T} (case-insensitive) was seen.
var ErrIllegalBase = errors.New("kmer: illegal base")

// ErrKOverflow means k is outside [1, 32].
var ErrKOverflow = errors.New("kmer: k (1-32) overflow")

// bit2base maps a 2-bit code back to its base.
var bit2base = [4]byte{'A', 'C', 'G', 'T'}

// Encode packs a k-mer (k<=32, no degenerate bases) into a uint64, 2 bits
// per base, MSB-first. Any byte outside ACGTacgt is an error, so callers
// skip k-mers containing invalid bases rather than degrading them to a
// substitute base.
func Encode(seq []byte) (code uint64, err error) {
	k := len(seq)
	if k == 0 || k > 32 {
		return 0, ErrKOverflow
	}
	for i := range seq {
		code <<= 2
		switch seq[i] {
		case 'A', 'a':
			code |= 0
		case 'C', 'c':
			code |= 1
		case 'G', 'g':
			code |= 2
		case 'T', 't':
			code |= 3
		default:
			return 0, ErrIllegalBase
		}
	}
	return code, nil
}

// Decode unpacks a k-mer code back into its upper-case byte representation.
func Decode(code uint64, k int) []byte {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	out := make([]byte, k)
	for i := 0; i < k; i++ {
		out[k-1-i] = bit2base[code&3]
		code >>= 2
	}
	return out
}

// Complement returns the code of the complement sequence (A<->T, C<->G),
// bases in the same order.
func Complement(code uint64, k int) (c uint64) {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	for i := 0; i < k; i++ {
		c |= (code&3 ^ 3) << uint(i<<1)
		code >>= 2
	}
	return
}

// Reverse returns the code of the reversed (not complemented) sequence.
func Reverse(code uint64, k int) (c uint64) {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	for i := 0; i < k; i++ {
		c <<= 2
		c |= code & 3
		code >>= 2
	}
	return
}

// RevComp returns the code of the reverse complement.
func RevComp(code uint64, k int) (c uint64) {
	if k <= 0 || k > 32 {
		panic(ErrKOverflow)
	}
	for i := 0; i < k; i++ {
		c <<= 2
		c |= code&3 ^ 3
		code >>= 2
	}
	return
}

// Code is a k-mer packed into a uint64 together with its length.
type Code struct {
	Code uint64
	K    int
}

// New encodes seq into a Code.
func New(seq []byte) (Code, error) {
	code, err := Encode(seq)
	if err != nil {
		return Code{}, err
	}
	return Code{code, len(seq)}, nil
}

// Canonical returns the lexicographically smaller of kc and its reverse
// complement.
func (kc Code) Canonical() Code {
	rc := Code{RevComp(kc.Code, kc.K), kc.K}
	if rc.Code < kc.Code {
		return rc
	}
	return kc
}

// RevComp returns the Code of the reverse complement.
func (kc Code) RevComp() Code {
	return Code{RevComp(kc.Code, kc.K), kc.K}
}

// Bytes decodes the k-mer back to its byte representation.
func (kc Code) Bytes() []byte {
	return Decode(kc.Code, kc.K)
}

// String decodes the k-mer to a string.
func (kc Code) String() string {
	return string(Decode(kc.Code, kc.K))
}

// Equal reports whether two codes are identical in both value and length.
func (kc Code) Equal(other Code) bool {
	return kc.K == other.K && kc.Code == other.Code
}

// CanonicalSeq canonicalizes a raw k-mer byte slice directly, returning its
// canonical string form. Used by the gap coverer, which works with byte
// windows of edited candidate sequences rather than pre-built Codes.
func CanonicalSeq(seq []byte) ([]byte, error) {
	code, err := Encode(seq)
	if err != nil {
		return nil, err
	}
	k := len(seq)
	rc := RevComp(code, k)
	if rc < code {
		return Decode(rc, k), nil
	}
	return Decode(code, k), nil
}
