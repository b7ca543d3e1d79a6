package bufferpool

// PageHandle is a non-owning view of a pinned page. Data aliases the
// frame buffer and stays valid from Pin until the matching Unpin; the
// pool owns the buffer.
type PageHandle struct {
	PageNum int32
	Data    []byte
}

// Lease couples a PageHandle with its pool so the pin can be released
// with a defer even across early returns.
type Lease struct {
	pool *Pool
	h    *PageHandle
	done bool
}

// PinLease pins pageNum and returns a scoped lease over the handle.
func (p *Pool) PinLease(pageNum int32) (*Lease, error) {
	h, err := p.Pin(pageNum)
	if err != nil {
		return nil, err
	}
	return &Lease{pool: p, h: h}, nil
}

func (l *Lease) Handle() *PageHandle { return l.h }
func (l *Lease) Data() []byte        { return l.h.Data }

// MarkDirty flags the leased page as modified.
func (l *Lease) MarkDirty() error {
	return l.pool.MarkDirty(l.h)
}

// Close releases the pin. It unpins at most once; further calls are
// no-ops.
func (l *Lease) Close() error {
	if l.done {
		return nil
	}
	l.done = true
	return l.pool.Unpin(l.h)
}
