package bufferpool

import "errors"

var (
	// ErrPoolNotOpen is returned for any operation on a pool that was
	// never initialized or has already been shut down.
	ErrPoolNotOpen = errors.New("bufferpool: pool is not open")

	// ErrPoolShutdown is returned when Shutdown is called on a pool
	// that is not open.
	ErrPoolShutdown = errors.New("bufferpool: shutdown of unopened pool")

	// ErrPinnedPages is returned when Shutdown finds frames still pinned.
	ErrPinnedPages = errors.New("bufferpool: pinned pages in buffer")

	// ErrNegativePageNum is returned when pinning a negative page number.
	ErrNegativePageNum = errors.New("bufferpool: negative page number")

	// ErrPageNotInFrameList is returned when the requested page is not resident.
	ErrPageNotInFrameList = errors.New("bufferpool: page not in frame list")

	// ErrPageNotPinned is returned when unpinning a page with no outstanding pins.
	ErrPageNotPinned = errors.New("bufferpool: page is not pinned")

	// ErrNoFreeFrame is returned when no unpinned frame is available for replacement.
	ErrNoFreeFrame = errors.New("bufferpool: no free frame available (all pinned)")
)
