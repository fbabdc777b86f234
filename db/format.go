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

// Package db implements the on-disk k-mer index / loci database and its
// decoding into the in-memory structures the calling engine consumes.
// Reading and writing this format is a collaborator of the allele-calling
// engine, not part of it: nothing in package callset imports package db.
package db

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
	"github.com/twotwotwo/sorts/sortutil"
)

// MainVersion is the database format's main version number.
const MainVersion uint8 = 1

// MinorVersion is the database format's minor version number.
const MinorVersion uint8 = 0

// Magic is the 8-byte magic number at the start of every database file.
var Magic = [8]byte{'.', 'm', 'l', 's', 't', 'i', 'd', 'x'}

// ErrInvalidFormat means the magic number or version did not match.
var ErrInvalidFormat = errors.New("db: invalid database format")

// ErrMissingK means the header carried no (or a zero) k-mer length;
// WriteDatabase also returns it for a k outside [1, 32].
var ErrMissingK = errors.New("db: missing k-mer length")

// ErrProfileColumns means a profile table had fewer allele columns than loci.
var ErrProfileColumns = errors.New("db: profile table has fewer columns than the locus count")

var be = binary.BigEndian

// Posting is one entry of the k-mer index: the locus/weight/allele-set
// triple a single canonical k-mer contributes to voting.
type Posting struct {
	Locus   int
	Weight  int32
	Alleles []int
}

// Locus is a per-locus descriptor.
type Locus struct {
	Name        string
	NumAlleles  int
	ExternalIDs []string // 1-based: ExternalIDs[i-1] is the id of internal allele i
	FASTAPath   string   // collaborator hint: where candidate sequences live
}

// ExternalID returns the external allele identifier for a 1-based internal
// allele index.
func (l Locus) ExternalID(allele int) string {
	if allele < 1 || allele > len(l.ExternalIDs) {
		return ""
	}
	return l.ExternalIDs[allele-1]
}

// Database is the fully decoded in-memory form of a compiled MLST
// database: the k-mer index, loci metadata, and an optional ST profile
// table.
type Database struct {
	K       int
	Loci    []Locus
	Index   map[uint64][]Posting
	Profile *ProfileTable
}

// WriteDatabase serializes db to w, gzip-compressed when compress is true.
func WriteDatabase(w io.Writer, database *Database, compress bool) (err error) {
	if database.K <= 0 || database.K > 32 {
		return ErrMissingK
	}

	var gw *gzip.Writer
	out := w
	if compress {
		gw = gzip.NewWriter(w)
		out = gw
	}

	if err = binary.Write(out, be, Magic); err != nil {
		return errors.Wrap(err, "write magic")
	}
	if err = binary.Write(out, be, [4]uint8{MainVersion, MinorVersion, uint8(database.K), 0}); err != nil {
		return errors.Wrap(err, "write header")
	}
	if err = binary.Write(out, be, uint32(len(database.Loci))); err != nil {
		return errors.Wrap(err, "write locus count")
	}
	for _, l := range database.Loci {
		if err = writeString(out, l.Name); err != nil {
			return errors.Wrapf(err, "write locus name %s", l.Name)
		}
		if err = binary.Write(out, be, uint32(l.NumAlleles)); err != nil {
			return err
		}
		for _, id := range l.ExternalIDs {
			if err = writeString(out, id); err != nil {
				return err
			}
		}
		if err = writeString(out, l.FASTAPath); err != nil {
			return err
		}
	}

	if err = binary.Write(out, be, uint64(len(database.Index))); err != nil {
		return errors.Wrap(err, "write index size")
	}
	// Sort the codes before writing so two processes compiling the same
	// alleles produce byte-identical database files; map iteration order
	// would otherwise make every build look like a diff.
	codes := make([]uint64, 0, len(database.Index))
	for code := range database.Index {
		codes = append(codes, code)
	}
	sortutil.Uint64s(codes)

	buf := make([]byte, binary.MaxVarintLen64)
	for _, code := range codes {
		postings := database.Index[code]
		if err = binary.Write(out, be, code); err != nil {
			return err
		}
		n := binary.PutUvarint(buf, uint64(len(postings)))
		if _, err = out.Write(buf[:n]); err != nil {
			return err
		}
		for _, p := range postings {
			n = binary.PutUvarint(buf, uint64(p.Locus))
			if _, err = out.Write(buf[:n]); err != nil {
				return err
			}
			n = binary.PutVarint(buf, int64(p.Weight))
			if _, err = out.Write(buf[:n]); err != nil {
				return err
			}
			n = binary.PutUvarint(buf, uint64(len(p.Alleles)))
			if _, err = out.Write(buf[:n]); err != nil {
				return err
			}
			for _, a := range p.Alleles {
				n = binary.PutUvarint(buf, uint64(a))
				if _, err = out.Write(buf[:n]); err != nil {
					return err
				}
			}
		}
	}

	if err = writeProfile(out, database.Profile); err != nil {
		return errors.Wrap(err, "write profile")
	}

	if gw != nil {
		return gw.Close()
	}
	return nil
}

// ReadDatabase deserializes a Database from r, transparently handling
// gzip-compressed input.
func ReadDatabase(r io.Reader) (database *Database, err error) {
	br := bufio.NewReaderSize(r, 4096)
	peek, err := br.Peek(2)
	if err == nil && peek[0] == 0x1f && peek[1] == 0x8b {
		gr, gerr := gzip.NewReader(br)
		if gerr != nil {
			return nil, errors.Wrap(gerr, "open gzip reader")
		}
		return readDatabase(gr)
	}
	return readDatabase(br)
}

func readDatabase(r io.Reader) (database *Database, err error) {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReaderSize(r, 4096)
	}

	var m [8]byte
	if err = binary.Read(br, be, &m); err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if m != Magic {
		return nil, ErrInvalidFormat
	}

	var meta [4]uint8
	if err = binary.Read(br, be, &meta); err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	if meta[0] != MainVersion {
		return nil, fmt.Errorf("db: unsupported format version %d", meta[0])
	}
	k := int(meta[2])
	if k == 0 {
		return nil, ErrMissingK
	}
	database = &Database{K: k}

	var nLoci uint32
	if err = binary.Read(br, be, &nLoci); err != nil {
		return nil, errors.Wrap(err, "read locus count")
	}
	database.Loci = make([]Locus, nLoci)
	for i := range database.Loci {
		name, err := readString(br)
		if err != nil {
			return nil, errors.Wrap(err, "read locus name")
		}
		var nAlleles uint32
		if err = binary.Read(br, be, &nAlleles); err != nil {
			return nil, err
		}
		ids := make([]string, nAlleles)
		for j := range ids {
			if ids[j], err = readString(br); err != nil {
				return nil, err
			}
		}
		fastaPath, err := readString(br)
		if err != nil {
			return nil, err
		}
		database.Loci[i] = Locus{Name: name, NumAlleles: int(nAlleles), ExternalIDs: ids, FASTAPath: fastaPath}
	}

	var nKmers uint64
	if err = binary.Read(br, be, &nKmers); err != nil {
		return nil, errors.Wrap(err, "read index size")
	}
	database.Index = make(map[uint64][]Posting, nKmers)
	for i := uint64(0); i < nKmers; i++ {
		var code uint64
		if err = binary.Read(br, be, &code); err != nil {
			return nil, errors.Wrap(err, "read kmer code")
		}
		nPostings, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, errors.Wrap(err, "read posting count")
		}
		postings := make([]Posting, nPostings)
		for p := range postings {
			locus, err := binary.ReadUvarint(br)
			if err != nil {
				return nil, err
			}
			weight, err := binary.ReadVarint(br)
			if err != nil {
				return nil, err
			}
			nAlleles, err := binary.ReadUvarint(br)
			if err != nil {
				return nil, err
			}
			alleles := make([]int, nAlleles)
			for a := range alleles {
				v, err := binary.ReadUvarint(br)
				if err != nil {
					return nil, err
				}
				alleles[a] = int(v)
			}
			postings[p] = Posting{Locus: int(locus), Weight: int32(weight), Alleles: alleles}
		}
		database.Index[code] = postings
	}

	database.Profile, err = readProfile(br)
	if err != nil {
		return nil, errors.Wrap(err, "read profile")
	}

	return database, nil
}

type byteReader interface {
	io.Reader
	io.ByteReader
}

func writeString(w io.Writer, s string) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, uint64(len(s)))
	if _, err := w.Write(buf[:n]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(br byteReader) (string, error) {
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err = io.ReadFull(br, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
