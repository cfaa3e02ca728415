// Package walker discovers candidate source files under a root directory,
// applying ignore rules and a binary-content sniff before a file is ever
// handed to the chunker.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pleme-io/codesearch/internal/ignore"
	"github.com/pleme-io/codesearch/internal/language"
)

// FileInfo describes one file discovered by Walk.
type FileInfo struct {
	Path     string // absolute
	RelPath  string // relative to root, forward-slash separated
	Size     int64
	ModTime  time.Time
	Language string // "" if no grammar is registered for this extension
}

// binarySniffBytes is how much of a file Walk reads to decide whether it
// looks binary, mirroring the window language.IsBinary inspects.
const binarySniffBytes = 8192

// Walk traverses root and sends every non-ignored, non-binary, non-oversized
// file on the returned channel. The walk runs in its own goroutine; both
// channels are closed when the walk finishes or ctx is cancelled.
func Walk(ctx context.Context, root string, matcher *ignore.Matcher, reg *language.Registry) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return nil
			}

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				if matcher.ShouldIgnoreDir(path) {
					return filepath.SkipDir
				}
				return nil
			}

			if d.Type()&fs.ModeSymlink != 0 {
				return nil
			}
			if matcher.ShouldIgnore(path) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}
			if info.Size() == 0 || matcher.IsFileTooLarge(info.Size()) {
				return nil
			}
			if looksBinary(path) {
				return nil
			}

			relPath, _ := filepath.Rel(absRoot, path)
			select {
			case files <- FileInfo{
				Path:     path,
				RelPath:  filepath.ToSlash(relPath),
				Size:     info.Size(),
				ModTime:  info.ModTime(),
				Language: reg.Name(path),
			}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if err != nil && err != context.Canceled {
			errs <- err
		}
	}()

	return files, errs
}

func looksBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, binarySniffBytes)
	n, _ := f.Read(buf)
	return language.IsBinary(buf[:n])
}
