package bufferpool

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tuannm99/pagepool/internal/storage"
)

var (
	logDebugPrefix = "bufferpool: "

	// DefaultCapacity is used when NewPool is given a non-positive frame count.
	DefaultCapacity = 128

	// DefaultHistoryDepth is the LRU-K history depth when none is given.
	DefaultHistoryDepth = 2
)

// Pool is a fixed-size buffer pool bound to one page file through a
// DiskManager. Pages are cached in frames, pinned while in use, and
// written back lazily; victim selection on a full pool is delegated to
// the configured Strategy.
type Pool struct {
	dm DiskManager

	mu        sync.Mutex
	frames    []*Frame      // fixed-size slice, len == numPages, nil == empty slot
	pageTable map[int32]int // PageNum -> index in frames
	numPages  int
	strategy  Strategy
	lruK      int

	// rearIndex counts distinct page loads from disk; it is also the
	// FIFO insertion cursor (modulo numPages).
	rearIndex int

	// tick increases on every successful pin, hit or miss, and feeds
	// Frame.HitNum under LRU/LRU-K.
	tick int64

	clockHand int // CLOCK scan position
	lfuHand   int // next-start hint for the LFU scan

	writeCount int // blocks written back since NewPool
	open       bool
}

// NewPool creates a pool with numPages frames over dm. If numPages <= 0
// a default capacity is used.
func NewPool(dm DiskManager, numPages int, strategy Strategy) *Pool {
	return NewPoolK(dm, numPages, strategy, DefaultHistoryDepth)
}

// NewPoolK is NewPool with an explicit LRU-K history depth. k is only
// consulted when strategy is LRUK.
func NewPoolK(dm DiskManager, numPages int, strategy Strategy, k int) *Pool {
	if numPages <= 0 {
		numPages = DefaultCapacity
	}
	if k <= 0 {
		k = DefaultHistoryDepth
	}
	return &Pool{
		dm:        dm,
		frames:    make([]*Frame, numPages),
		pageTable: make(map[int32]int, numPages),
		numPages:  numPages,
		strategy:  strategy,
		lruK:      k,
		open:      true,
	}
}

func (p *Pool) Capacity() int      { return p.numPages }
func (p *Pool) Strategy() Strategy { return p.strategy }

// Pin returns a handle to pageNum with its fix count increased. On a
// miss the page is loaded from disk, evicting a victim when every frame
// is occupied. The handle's Data points into the frame buffer and stays
// valid until the matching Unpin.
func (p *Pool) Pin(pageNum int32) (*PageHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return nil, ErrPoolNotOpen
	}
	if pageNum < 0 {
		return nil, ErrNegativePageNum
	}

	slog.Debug(logDebugPrefix+"Pin called", "pageNum", pageNum, "strategy", p.strategy)

	// 1) Page already resident.
	if idx, ok := p.pageTable[pageNum]; ok {
		f := p.frames[idx]
		if f == nil {
			// Inconsistent mapping, should not happen.
			slog.Error(logDebugPrefix+"pageTable points to nil frame",
				"pageNum", pageNum,
				"frameIdx", idx)
			delete(p.pageTable, pageNum)
		} else {
			f.FixCount++
			p.tick++
			p.touchLocked(f, true)
			slog.Debug(logDebugPrefix+"found page in buffer",
				"pageNum", pageNum,
				"frameIdx", idx,
				"fixCount", f.FixCount)
			return &PageHandle{PageNum: pageNum, Data: f.Data}, nil
		}
	}

	// 2) Use an empty slot when one exists.
	freeIdx := -1
	for i, f := range p.frames {
		if f == nil {
			freeIdx = i
			break
		}
	}
	if freeIdx != -1 {
		f, err := p.installLocked(freeIdx, pageNum)
		if err != nil {
			return nil, err
		}
		slog.Debug(logDebugPrefix+"installed page in free frame",
			"pageNum", pageNum,
			"frameIdx", freeIdx)
		return &PageHandle{PageNum: pageNum, Data: f.Data}, nil
	}

	// 3) Pool is full: pick an unpinned victim and replace it.
	victimIdx, err := p.pickVictimLocked()
	if err != nil {
		return nil, err
	}
	victim := p.frames[victimIdx]
	slog.Debug(logDebugPrefix+"selected victim frame",
		"victimPageNum", victim.PageNum,
		"frameIdx", victimIdx,
		"dirty", victim.Dirty)

	if victim.Dirty {
		if err := p.dm.WriteBlock(victim.PageNum, victim.Data); err != nil {
			return nil, fmt.Errorf("write back page %d: %w", victim.PageNum, err)
		}
		p.writeCount++
		victim.Dirty = false
	}

	delete(p.pageTable, victim.PageNum)
	p.frames[victimIdx] = nil

	f, err := p.installLocked(victimIdx, pageNum)
	if err != nil {
		return nil, err
	}
	slog.Debug(logDebugPrefix+"reused victim frame",
		"pageNum", pageNum,
		"frameIdx", victimIdx)
	return &PageHandle{PageNum: pageNum, Data: f.Data}, nil
}

// installLocked loads pageNum from disk into the empty slot idx. On a
// read failure the slot stays empty so no frame is left half populated.
func (p *Pool) installLocked(idx int, pageNum int32) (*Frame, error) {
	if err := p.dm.EnsureCapacity(pageNum + 1); err != nil {
		return nil, fmt.Errorf("ensure capacity for page %d: %w", pageNum, err)
	}
	buf := make([]byte, storage.PageSize)
	if err := p.dm.ReadBlock(pageNum, buf); err != nil {
		return nil, fmt.Errorf("read page %d: %w", pageNum, err)
	}

	f := &Frame{
		PageNum:  pageNum,
		Data:     buf,
		FixCount: 1,
	}
	p.frames[idx] = f
	p.pageTable[pageNum] = idx

	p.rearIndex++
	p.tick++
	p.touchLocked(f, false)
	return f, nil
}

// touchLocked refreshes policy metadata after a successful pin. hit is
// false when the frame was just installed from disk.
func (p *Pool) touchLocked(f *Frame, hit bool) {
	switch p.strategy {
	case LRU:
		f.HitNum = p.tick
	case LRUK:
		f.HitNum = p.tick
		f.hist = append(f.hist, p.tick)
		if len(f.hist) > p.lruK {
			f.hist = f.hist[len(f.hist)-p.lruK:]
		}
	case Clock:
		f.HitNum = 1
	case LFU:
		if hit {
			f.RefNum++
		}
	}
}

// Unpin drops one pin on the page referenced by h.
func (p *Pool) Unpin(h *PageHandle) error {
	if h == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return ErrPoolNotOpen
	}
	idx, ok := p.pageTable[h.PageNum]
	if !ok {
		return ErrPageNotInFrameList
	}
	f := p.frames[idx]
	if f == nil {
		slog.Error(logDebugPrefix+"Unpin found nil frame",
			"pageNum", h.PageNum,
			"frameIdx", idx)
		delete(p.pageTable, h.PageNum)
		return ErrPageNotInFrameList
	}
	if f.FixCount == 0 {
		return ErrPageNotPinned
	}
	f.FixCount--
	slog.Debug(logDebugPrefix+"Unpin",
		"pageNum", h.PageNum,
		"frameIdx", idx,
		"fixCount", f.FixCount)
	return nil
}

// MarkDirty flags the page referenced by h as modified so it is written
// back on eviction, FlushAll, or Shutdown.
func (p *Pool) MarkDirty(h *PageHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return ErrPoolNotOpen
	}
	idx, ok := p.pageTable[h.PageNum]
	if !ok {
		return ErrPageNotInFrameList
	}
	p.frames[idx].Dirty = true
	return nil
}

// ForcePage writes the page referenced by h back to disk immediately,
// regardless of its dirty state.
func (p *Pool) ForcePage(h *PageHandle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return ErrPoolNotOpen
	}
	idx, ok := p.pageTable[h.PageNum]
	if !ok {
		return ErrPageNotInFrameList
	}
	f := p.frames[idx]
	if err := p.dm.WriteBlock(f.PageNum, f.Data); err != nil {
		return fmt.Errorf("force page %d: %w", f.PageNum, err)
	}
	p.writeCount++
	f.Dirty = false
	slog.Debug(logDebugPrefix+"ForcePage", "pageNum", f.PageNum, "frameIdx", idx)
	return nil
}

// FlushAll writes every dirty unpinned frame back to disk. Pinned
// frames keep their dirty flag and are skipped.
func (p *Pool) FlushAll() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return ErrPoolNotOpen
	}
	return p.flushAllLocked()
}

func (p *Pool) flushAllLocked() error {
	for idx, f := range p.frames {
		if f == nil || !f.Dirty || f.FixCount != 0 {
			continue
		}
		slog.Debug(logDebugPrefix+"flushing frame",
			"pageNum", f.PageNum,
			"frameIdx", idx)
		if err := p.dm.WriteBlock(f.PageNum, f.Data); err != nil {
			return fmt.Errorf("flush page %d: %w", f.PageNum, err)
		}
		p.writeCount++
		f.Dirty = false
	}
	return nil
}

// Shutdown flushes all dirty frames and releases the frame table. It
// refuses to run while any page is still pinned, leaving the pool
// untouched in that case.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return ErrPoolShutdown
	}
	for _, f := range p.frames {
		if f != nil && f.FixCount > 0 {
			return ErrPinnedPages
		}
	}
	if err := p.flushAllLocked(); err != nil {
		return err
	}

	p.frames = nil
	p.pageTable = nil
	p.open = false
	slog.Debug(logDebugPrefix + "Shutdown complete")
	return nil
}

// FrameContents reports the resident page number of every frame slot,
// NoPage for empty slots.
func (p *Pool) FrameContents() []int32 {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]int32, p.numPages)
	for i := range out {
		out[i] = NoPage
	}
	for i, f := range p.frames {
		if f != nil {
			out[i] = f.PageNum
		}
	}
	return out
}

// DirtyFlags reports the dirty bit of every frame slot.
func (p *Pool) DirtyFlags() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]bool, p.numPages)
	for i, f := range p.frames {
		if f != nil {
			out[i] = f.Dirty
		}
	}
	return out
}

// FixCounts reports the pin count of every frame slot.
func (p *Pool) FixCounts() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]int, p.numPages)
	for i, f := range p.frames {
		if f != nil {
			out[i] = f.FixCount
		}
	}
	return out
}

// NumReadIO reports one more than the number of distinct pages loaded
// from disk since NewPool. The off-by-one is a legacy convention
// callers depend on.
func (p *Pool) NumReadIO() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rearIndex + 1
}

// NumWriteIO reports the number of blocks the pool has written back.
func (p *Pool) NumWriteIO() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeCount
}
