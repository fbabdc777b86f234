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
	"os"

	humanize "github.com/dustin/go-humanize"
	"github.com/shenwei356/stable"
	"github.com/spf13/cobra"

	"kmermlst/db"
)

var dbInfoCmd = &cobra.Command{
	Use:   "db-info",
	Short: "Print k-mer index summary information",
	Long: `Print k-mer index summary information

Reports k-mer length, locus count, index size, and whether a
sequence-type profile table is present; with --all, also the allele
count of every locus.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		all := getFlagBool(cmd, "all")

		if len(args) != 1 {
			checkError(fmt.Errorf("db-info requires exactly one database file"))
		}

		f, err := openInput(args[0])
		checkError(err)
		defer f.Close()

		database, err := db.ReadDatabase(f)
		checkError(err)

		if opt.Verbose {
			log.Infof("loaded database with %d loci, k=%d", len(database.Loci), database.K)
		}

		fmt.Printf("k: %d\n", database.K)
		fmt.Printf("loci: %d\n", len(database.Loci))
		fmt.Printf("distinct k-mers: %s\n", humanize.Comma(int64(len(database.Index))))
		if database.Profile != nil {
			fmt.Printf("profile rows: %s\n", humanize.Comma(int64(len(database.Profile.Rows))))
		} else {
			fmt.Printf("profile rows: none\n")
		}

		if all {
			style := &stable.TableStyle{
				Name:      "plain",
				HeaderRow: stable.RowStyle{Begin: "", Sep: "  ", End: ""},
				DataRow:   stable.RowStyle{Begin: "", Sep: "  ", End: ""},
				Padding:   "",
			}
			tbl := stable.New()
			tbl.HeaderWithFormat([]stable.Column{
				{Header: "locus"},
				{Header: "num_alleles", Align: stable.AlignRight},
			})
			for _, l := range database.Loci {
				tbl.AddRow([]interface{}{l.Name, l.NumAlleles})
			}
			os.Stdout.Write(tbl.Render(style))
		}
	},
}

func init() {
	RootCmd.AddCommand(dbInfoCmd)

	dbInfoCmd.Flags().BoolP("all", "a", false, "also list every locus with its allele count")
}
