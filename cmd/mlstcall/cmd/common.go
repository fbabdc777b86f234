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
	"io"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
)

// Options holds the persistent flags shared by every subcommand.
type Options struct {
	NumCPUs  int
	Verbose  bool
	Compress bool
}

func getOptions(cmd *cobra.Command) *Options {
	return &Options{
		NumCPUs:  getFlagPositiveInt(cmd, "threads"),
		Verbose:  getFlagBool(cmd, "verbose"),
		Compress: !getFlagBool(cmd, "no-compress"),
	}
}

func isStdin(file string) bool {
	return file == "-"
}

// expandPath expands a leading "~" the way a shell would, so --db,
// --forward and output-path flags accept home-relative paths. "-"
// (stdin/stdout) passes through untouched.
func expandPath(path string) (string, error) {
	if path == "" || isStdin(path) {
		return path, nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", errors.Wrapf(err, "expand %s", path)
	}
	return expanded, nil
}

// checkFiles verifies every non-stdin entry of files exists before
// counting starts, so a typoed path fails up front instead of surfacing
// a less specific error from deep inside the read path.
func checkFiles(files ...string) error {
	for _, file := range files {
		if isStdin(file) {
			continue
		}
		ok, err := pathutil.Exists(file)
		if err != nil {
			return errors.Wrapf(err, "check %s", file)
		}
		if !ok {
			return errors.Errorf("file does not exist: %s", file)
		}
	}
	return nil
}

// openInput opens file for reading, treating "-" as stdin and
// transparently decompressing gzip/bzip2/xz input via xopen.
func openInput(file string) (io.ReadCloser, error) {
	expanded, err := expandPath(file)
	if err != nil {
		return nil, err
	}
	f, err := xopen.Ropen(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	return f, nil
}

// openOutput opens file for writing, treating "-"/"" as stdout and
// gzip-compressing transparently when the path ends in ".gz".
func openOutput(file string) (io.WriteCloser, error) {
	expanded, err := expandPath(file)
	if err != nil {
		return nil, err
	}
	if expanded == "" {
		expanded = "-"
	}
	f, err := xopen.Wopen(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", file)
	}
	return f, nil
}

// splitCommaList splits a comma-separated flag value, dropping empty
// entries, so one flag can carry multiple paths.
func splitCommaList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
