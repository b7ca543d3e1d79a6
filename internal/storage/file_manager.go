package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tuannm99/pagepool/internal/alias/util"
)

// FileManager maps a logical pageNum -> byte offset inside one page file.
// The file is opened per call (no cached handle), so a FileManager value
// can be shared freely across pools.
type FileManager struct {
	path string
}

func NewFileManager(path string) *FileManager {
	return &FileManager{path: path}
}

func (fm *FileManager) Path() string { return fm.path }

// open opens (or creates) the page file. RDWR | CREATE, no truncate.
func (fm *FileManager) open() (*os.File, error) {
	if dir := filepath.Dir(fm.path); dir != "." {
		if err := os.MkdirAll(dir, FileMode0755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(fm.path, os.O_RDWR|os.O_CREATE, FileMode0644)
}

// ReadBlock reads exactly one page (PageSize bytes) into dst.
// If the underlying file is smaller than the requested offset+PageSize,
// the remainder is zero-filled. This allows "sparse" pages that are
// lazily initialized by higher layers.
func (fm *FileManager) ReadBlock(pageNum int32, dst []byte) error {
	if len(dst) != PageSize {
		return fmt.Errorf("%w: dst is %d bytes", ErrBadBufferSize, len(dst))
	}
	if pageNum < 0 {
		return ErrNegativePage
	}
	f, err := fm.open()
	if err != nil {
		return err
	}
	defer util.CloseFileFunc(f)

	n, err := f.ReadAt(dst, int64(pageNum)*PageSize)
	if err != nil && err != io.EOF {
		return err
	}
	// Zero-fill the rest of the page if we hit EOF early or a short read.
	for i := n; i < PageSize; i++ {
		dst[i] = 0
	}
	return nil
}

// WriteBlock writes exactly one page (PageSize bytes) from src to disk
// at the block position computed from pageNum.
func (fm *FileManager) WriteBlock(pageNum int32, src []byte) error {
	if len(src) != PageSize {
		return fmt.Errorf("%w: src is %d bytes", ErrBadBufferSize, len(src))
	}
	if pageNum < 0 {
		return ErrNegativePage
	}
	f, err := fm.open()
	if err != nil {
		return err
	}
	defer util.CloseFileFunc(f)

	n, err := f.WriteAt(src, int64(pageNum)*PageSize)
	if err != nil {
		return err
	}
	if n != PageSize {
		return io.ErrShortWrite
	}
	return nil
}

// EnsureCapacity grows the page file so that pages [0, numPages) exist.
// It is a no-op when the file is already large enough.
func (fm *FileManager) EnsureCapacity(numPages int32) error {
	if numPages < 0 {
		return ErrNegativePage
	}
	f, err := fm.open()
	if err != nil {
		return err
	}
	defer util.CloseFileFunc(f)

	info, err := f.Stat()
	if err != nil {
		return err
	}
	want := int64(numPages) * PageSize
	if info.Size() >= want {
		return nil
	}
	return f.Truncate(want)
}

// CountPages computes the number of whole pages currently in the file.
func (fm *FileManager) CountPages() (int32, error) {
	f, err := fm.open()
	if err != nil {
		return 0, err
	}
	defer util.CloseFileFunc(f)

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return int32(info.Size() / PageSize), nil
}
