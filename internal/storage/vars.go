package storage

import (
	"errors"
)

const (
	OneB  = 1
	OneKB = 1024
	OneMB = OneKB * 1024
	OneGB = OneMB * 1024
)

const (
	// 8KB page size, similar to PostgreSQL
	PageSize = OneKB * 8
)

const (
	FileMode0644 = 0o644 // rw-r--r--
	FileMode0664 = 0o664 // rw-rw-r--
	FileMode0755 = 0o755 // rwxr-xr-x
)

var (
	ErrBadBufferSize = errors.New("storage: buffer must be exactly one page")
	ErrNegativePage  = errors.New("storage: negative page number")
)
