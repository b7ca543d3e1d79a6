package bufferpool

// DiskManager is the storage surface the pool drives. It reads and
// writes whole blocks of storage.PageSize bytes addressed by page
// number. *storage.FileManager implements it; tests substitute an
// in-memory mock.
type DiskManager interface {
	ReadBlock(pageNum int32, dst []byte) error
	WriteBlock(pageNum int32, src []byte) error
	EnsureCapacity(numPages int32) error
}
