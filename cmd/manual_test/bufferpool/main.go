package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	pagepool "github.com/tuannm99/pagepool/internal"
	"github.com/tuannm99/pagepool/internal/bufferpool"
	"github.com/tuannm99/pagepool/internal/storage"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (optional)")
	flag.Parse()

	file := filepath.Join("data", "manual_bp", "pagefile")
	frames := 4
	strategy := bufferpool.LRU
	lruK := bufferpool.DefaultHistoryDepth
	debug := true

	if *cfgPath != "" {
		cfg, err := pagepool.LoadConfig(*cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		strat, err := cfg.PoolStrategy()
		if err != nil {
			log.Fatalf("resolve strategy: %v", err)
		}
		file = cfg.Pool.File
		frames = cfg.Pool.Frames
		strategy = strat
		lruK = cfg.Pool.LruK
		debug = cfg.Log.Debug
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	_ = os.RemoveAll(filepath.Dir(file))
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	fm := storage.NewFileManager(file)
	pool := bufferpool.NewPoolK(fm, frames, strategy, lruK)
	defer func() {
		if err := pool.Shutdown(); err != nil {
			log.Printf("pool shutdown error: %v", err)
		}
	}()

	// Touch more pages than the pool has frames so evictions kick in,
	// stamping each page so the write-back path is visible on disk.
	for pageNum := int32(0); pageNum < int32(2*frames); pageNum++ {
		lease, err := pool.PinLease(pageNum)
		if err != nil {
			log.Fatalf("pin page %d: %v", pageNum, err)
		}
		copy(lease.Data(), fmt.Sprintf("page %d was here", pageNum))
		if err := lease.MarkDirty(); err != nil {
			log.Fatalf("mark dirty page %d: %v", pageNum, err)
		}
		if err := lease.Close(); err != nil {
			log.Fatalf("unpin page %d: %v", pageNum, err)
		}
	}

	// Re-pin an early page to show it is read back after eviction.
	h, err := pool.Pin(0)
	if err != nil {
		log.Fatalf("re-pin page 0: %v", err)
	}
	fmt.Printf("page 0 contents: %q\n", h.Data[:16])
	if err := pool.Unpin(h); err != nil {
		log.Fatalf("unpin page 0: %v", err)
	}

	if err := pool.FlushAll(); err != nil {
		log.Fatalf("flush: %v", err)
	}

	fmt.Printf("strategy:       %s\n", pool.Strategy())
	fmt.Printf("frame contents: %v\n", pool.FrameContents())
	fmt.Printf("dirty flags:    %v\n", pool.DirtyFlags())
	fmt.Printf("fix counts:     %v\n", pool.FixCounts())
	fmt.Printf("read IOs:       %d\n", pool.NumReadIO())
	fmt.Printf("write IOs:      %d\n", pool.NumWriteIO())
}
