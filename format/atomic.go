// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	gio "github.com/cpmech/gosl/io"
)

// atomicWriteFile writes through a temp file in the same directory, then
// renames it into place (§7: "writes go through an atomic temp-file
// swap"), narrating success through gosl's io.Pf.
func atomicWriteFile(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bifrust-*.tmp")
	if err != nil {
		return chk.Err("format: creating temp file: %v", err)
	}
	tmpPath := tmp.Name()
	bw := bufio.NewWriter(tmp)
	writeErr := write(bw)
	if writeErr == nil {
		writeErr = bw.Flush()
	}
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if writeErr != nil {
			return writeErr
		}
		return chk.Err("format: closing temp file: %v", closeErr)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return chk.Err("format: renaming temp file into place: %v", err)
	}
	gio.Pf("wrote %s\n", path)
	return nil
}
