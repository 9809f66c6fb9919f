package seekhole

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Session is the context of a single walk over one file:
// the open fd, its block size, the reusable query buffer
// (inside the mapper), the config and where the per-query
// lines go. Everything is acquired in Open and held until Close.
type Session struct {
	path      string
	fd        *os.File
	blockSize int64
	mapper    extentMapper
	cfg       *Config
	out       io.Writer
}

// Open readies a walk of path. Any failure here is fatal
// to the run: the file must open read-only, report its
// block size, and the mapper's buffer must allocate. Query
// lines are written to out; nil out discards them.
func Open(path string, cfg *Config, out io.Writer) (s *Session, err error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		out = io.Discard
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open file")
	}
	if !fileExists(path) {
		fd.Close()
		return nil, errors.Errorf("not a regular file: '%v'", path)
	}

	bs, err := blockSizeOf(fd)
	if err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "can't get block size of '%v'", path)
	}
	if bs <= 0 {
		fd.Close()
		return nil, errors.Errorf("filesystem reported block size %v for '%v'", bs, path)
	}

	var m extentMapper
	if cfg.UseSeek {
		m, err = newSeekMapper(fd)
	} else {
		m, err = newFiemapMapper(fd, cfg.ExtentCount)
	}
	if err != nil {
		fd.Close()
		return nil, errors.Wrap(err, "could not set up the extent query")
	}
	vv("opened '%v': block size %v, seek=%v, extents per query %v", path, bs, cfg.UseSeek, cfg.ExtentCount)

	return &Session{
		path:      path,
		fd:        fd,
		blockSize: bs,
		mapper:    m,
		cfg:       cfg,
		out:       out,
	}, nil
}

func (s *Session) Path() string    { return s.path }
func (s *Session) BlockSize() int64 { return s.blockSize }

// Close releases the fd. It is safe to call more than once.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.mapper = nil
	if s.fd == nil {
		return nil
	}
	err := s.fd.Close()
	s.fd = nil
	return err
}

// NextExtent asks for the first allocated extent at or after
// block cursor and returns its start and length in blocks.
// The length rounds up, so a short final extent still counts
// as one block. ErrNoMoreExtents means there is none.
func (s *Session) NextExtent(cursor int64) (next, length int64, flags uint32, err error) {
	if s.mapper == nil {
		return 0, 0, 0, ErrClosed
	}
	bs := s.blockSize
	start := uint64(cursor) * uint64(bs)

	exts, err := s.mapper.mapExtents(start)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(exts) > s.cfg.ExtentCount {
		return 0, 0, 0, errors.Wrapf(ErrExtentOverflow, "got %v, asked for at most %v", len(exts), s.cfg.ExtentCount)
	}
	if len(exts) == 0 {
		vv("no extents at or after block %v (byte %v)", cursor, start)
		return 0, 0, 0, ErrNoMoreExtents
	}
	e := exts[0]
	next = int64(e.Logical / uint64(bs))
	length = int64((e.Length + uint64(bs) - 1) / uint64(bs))
	flags = e.Flags

	if !s.cfg.Quiet {
		line := fmt.Sprintf("Starting at %v, next block is at %v with length %v", cursor, next, length)
		if fs := FlagString(flags); fs != "" {
			line += " (" + fs + ")"
		}
		fmt.Fprintln(s.out, line)
	}
	return
}

// fileBlocks is the file's apparent size in blocks, rounded up.
func (s *Session) fileBlocks() (int64, error) {
	if s.fd == nil {
		return 0, ErrClosed
	}
	sz, err := fileSizeFromFile(s.fd)
	if err != nil {
		return 0, err
	}
	return (sz + s.blockSize - 1) / s.blockSize, nil
}
