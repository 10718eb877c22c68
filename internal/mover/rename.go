package mover

import (
	"os"

	"orgsort/internal/fileutil"
)

func renameChecked(src, dst string) error {
	exists, err := fileutil.Exists(dst)
	if err != nil {
		return err
	}
	if exists {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: os.ErrExist}
	}
	return os.Rename(src, dst)
}
