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

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"kmermlst/callset"
	"kmermlst/db"
	"kmermlst/reads"
	"kmermlst/report"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Call MLST alleles and sequence types from sequencing reads",
	Long: `Call MLST alleles and sequence types from sequencing reads

Counts canonical k-mers from one or more samples' reads against a
pre-built database, votes every candidate allele per locus, and writes
the allele calls, coverage report, special-case FASTA, vote-only calls,
vote details and tie reports into --out-dir.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		runtime.GOMAXPROCS(opt.NumCPUs)

		dbFile := getFlagString(cmd, "db")
		profileFile := getFlagString(cmd, "profile")
		forward := splitCommaList(getFlagString(cmd, "forward"))
		reverse := splitCommaList(getFlagString(cmd, "reverse"))
		outDir := getFlagString(cmd, "out-dir")
		threshold := getFlagPositiveInt(cmd, "threshold")
		gapThreshold := getFlagPositiveInt(cmd, "gap-threshold")
		maxMutations := getFlagPositiveInt(cmd, "max-mutations")
		outputSpecialCases := getFlagBool(cmd, "output-special-cases")
		outputVotes := getFlagBool(cmd, "output-votes")

		// Expand a leading "~" on every path flag up front, so the existence
		// check, the read iterators and the output directory all see the
		// same paths openInput/openOutput open.
		for _, p := range []*string{&dbFile, &profileFile, &outDir} {
			expanded, err := expandPath(*p)
			checkError(err)
			*p = expanded
		}
		for _, list := range [][]string{forward, reverse} {
			for i := range list {
				expanded, err := expandPath(list[i])
				checkError(err)
				list[i] = expanded
			}
		}

		if len(forward) == 0 {
			checkError(fmt.Errorf("call: at least one --forward file is required"))
		}
		files := append(append([]string{dbFile}, forward...), reverse...)
		if profileFile != "" {
			files = append(files, profileFile)
		}
		checkError(checkFiles(files...))

		dbf, err := openInput(dbFile)
		checkError(err)
		database, err := db.ReadDatabase(dbf)
		dbf.Close()
		checkError(err)

		if opt.Verbose {
			log.Infof("loaded database: %d loci, %s distinct k-mers, k=%d",
				len(database.Loci), humanize.Comma(int64(len(database.Index))), database.K)
		}

		if profileFile != "" {
			pf, err := openInput(profileFile)
			checkError(err)
			table, err := db.ParseProfileTable(pf, len(database.Loci))
			pf.Close()
			checkError(err)
			database.Profile = table
		}

		pairs, err := reads.PairFiles(forward, reverse)
		checkError(err)

		checkError(os.MkdirAll(outDir, 0755))

		candidates := make([]*reads.CandidateFASTA, len(database.Loci))
		for i, l := range database.Loci {
			if l.FASTAPath != "" {
				candidates[i] = reads.NewCandidateFASTA(l.FASTAPath)
			}
		}

		index := database.CallsetIndex()
		loci := database.CallsetLoci()
		callOpts := callset.CallOptions{K: database.K, Threshold: threshold, GapThreshold: gapThreshold, MaxMutations: maxMutations}

		var sampleNames []string
		calls := map[string]map[string]callset.AlleleCall{}
		voteOnly := map[string]map[string]callset.VoteOnlyResult{}
		sts := map[string]string{}
		ccs := map[string]string{}
		var coverageRows []report.SampleCall
		var voteDetails []report.VoteDetail
		var ties []report.TieRecord

		for _, pair := range pairs {
			sample, err := reads.SampleName(pair[0], pair[1])
			checkError(err)
			if opt.Verbose {
				log.Infof("counting k-mers for sample %s", sample)
			}

			var files []string
			files = append(files, pair[0])
			if pair[1] != "" {
				files = append(files, pair[1])
			}
			reader, err := reads.NewReader(files)
			checkError(err)
			counts, err := callset.CountRestricted(reader, database.K, index)
			checkError(err)

			sampleNames = append(sampleNames, sample)
			calls[sample] = map[string]callset.AlleleCall{}
			voteOnly[sample] = map[string]callset.VoteOnlyResult{}

			votes := callset.AggregateVotes(counts, index, loci)

			calledAlleles := make([]string, len(loci))
			for li, locus := range loci {
				var seqs callset.AlleleSequences
				if candidates[li] != nil {
					seqs = candidates[li]
				} else {
					seqs = emptySequences{}
				}

				call := callset.CallAllele(locus, votes.PerAllele[li], votes.PerLocus[li], seqs, counts, callOpts)
				calls[sample][locus.Name] = call
				calledAlleles[li] = call.Label

				vo := callset.VoteOnly(locus, votes.PerAllele[li])
				voteOnly[sample][locus.Name] = vo

				coverageRows = append(coverageRows, report.SampleCall{Sample: sample, Locus: locus.Name, Call: call})

				labels := make([]string, locus.NumAlleles)
				voteVals := make([]int64, locus.NumAlleles)
				for a := 0; a < locus.NumAlleles; a++ {
					labels[a] = locus.ExternalID(a + 1)
					voteVals[a] = votes.PerAllele[li][a]
				}
				voteDetails = append(voteDetails, report.VoteDetail{
					Sample: sample, Locus: locus.Name, LocusVotes: votes.PerLocus[li],
					Alleles: labels, Votes: voteVals,
				})
				ties = append(ties, report.TieRecord{Sample: sample, Locus: locus.Name, Result: vo})

				if outputSpecialCases && candidates[li] != nil && len(call.AllelesToCheck) > 0 {
					f, err := openOutput(filepath.Join(outDir, fmt.Sprintf("%s.%s.special.fasta", sample, locus.Name)))
					checkError(err)
					err = report.WriteSpecialCasesFASTA(f, sample, locus.Name, call, candidates[li].Sequence)
					f.Close()
					checkError(err)
				}
			}

			st, cc := database.Profile.Match(calledAlleles)
			sts[sample] = st
			ccs[sample] = cc
		}

		lociNames := make([]string, len(loci))
		for i, l := range loci {
			lociNames[i] = l.Name
		}

		mustWrite(filepath.Join(outDir, "calls.tsv"), func(w io.Writer) error {
			return report.WriteCallsTable(w, lociNames, sampleNames, calls, sts, ccs)
		})
		mustWrite(filepath.Join(outDir, "coverage.tsv"), func(w io.Writer) error {
			return report.WriteCoverageReport(w, coverageRows)
		})
		if outputVotes {
			mustWrite(filepath.Join(outDir, "vote-only-calls.tsv"), func(w io.Writer) error {
				return report.WriteVoteOnlyCalls(w, lociNames, sampleNames, voteOnly)
			})
			mustWrite(filepath.Join(outDir, "vote-details.tsv"), func(w io.Writer) error {
				return report.WriteVoteDetails(w, voteDetails)
			})
			mustWrite(filepath.Join(outDir, "ties.tsv"), func(w io.Writer) error {
				return report.WriteTies(w, ties)
			})
		}
	},
}

// mustWrite opens path via openOutput (transparent gzip on a ".gz"
// suffix, matching every other output stream) and checkErrors both the
// open and the write.
func mustWrite(path string, fn func(w io.Writer) error) {
	f, err := openOutput(path)
	checkError(err)
	defer f.Close()
	checkError(fn(f))
}

// emptySequences is used for loci with no configured candidate FASTA
// file; CallAllele still runs, but no candidate sequence can be loaded,
// so the call comes out Absent.
type emptySequences struct{}

func (emptySequences) Sequence(i int) ([]byte, error) {
	return nil, fmt.Errorf("call: no candidate FASTA configured for this locus")
}

func (emptySequences) Len() int { return 0 }

func init() {
	RootCmd.AddCommand(callCmd)

	callCmd.Flags().StringP("db", "d", "", "database file produced by the index builder")
	callCmd.Flags().StringP("profile", "p", "", "tab-separated ST profile table, overriding any profile embedded in the database")
	callCmd.Flags().StringP("forward", "1", "", "comma-separated forward (or single-end) read files, one per sample")
	callCmd.Flags().StringP("reverse", "2", "", "comma-separated reverse read files, one per sample, paired by position with --forward")
	callCmd.Flags().StringP("out-dir", "o", "mlstcall-out", "output directory for the report streams")
	callCmd.Flags().IntP("threshold", "t", 6, "minimum k-mer depth to consider a position covered")
	callCmd.Flags().Int("gap-threshold", 8, "minimum k-mer depth used inside gap correction")
	callCmd.Flags().IntP("max-mutations", "m", 3, "maximum mutation budget for novel-allele reconstruction")
	callCmd.Flags().Bool("output-special-cases", true, "emit a special-case FASTA per locus with multiple/novel/partial/uncovered calls")
	callCmd.Flags().Bool("output-votes", true, "emit the vote-only calls, vote details and ties report streams")

	callCmd.MarkFlagRequired("db")
}
