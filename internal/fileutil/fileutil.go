// Package fileutil provides file helpers for backups and plan imports.
package fileutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// WriteAtomic writes the output of fill to a temporary file next to path,
// then renames it over path. Readers see either the old file or the
// complete new one. Parent directories are created as needed.
func WriteAtomic(path string, fill func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIO("mkdir", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.NewIO("close", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.NewIO("rename", path, err)
	}
	return nil
}

// CopyFile copies src to dst atomically, creating dst's parent directories.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.NewIO("open", src, err)
	}
	defer in.Close()

	return WriteAtomic(dst, func(w io.Writer) error {
		if _, err := io.Copy(w, in); err != nil {
			return errors.NewIO("copy", src, err)
		}
		return nil
	})
}
