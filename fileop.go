package seekhole

import (
	"os"
	"syscall"

	"github.com/pkg/errors"
)

// ErrNoMoreExtents means the query found no allocated
// extent at or after the requested offset. This is
// how a walk normally ends.
var ErrNoMoreExtents = errors.New("no more extents")

// ErrBadExtentCount is returned for a requested
// extent count outside [1, MaxExtentCount].
var ErrBadExtentCount = errors.New("extent count out of range")

// ErrExtentOverflow means the kernel claimed more mapped
// extents than the buffer has room for.
var ErrExtentOverflow = errors.New("more extents returned than requested")

// ErrNotSupported is returned where the extent map
// ioctl does not exist on this OS.
var ErrNotSupported = errors.New("extent mapping not supported on this platform")

// ErrClosed is returned by a Session after Close.
var ErrClosed = errors.New("session is closed")

func fileExists(name string) bool {
	fi, err := os.Stat(name)
	if err != nil {
		return false
	}
	if fi.IsDir() {
		return false
	}
	return true
}

func fileSizeFromFile(fd *os.File) (int64, error) {
	fi, err := fd.Stat()
	if err != nil {
		return -1, err
	}
	return fi.Size(), nil
}

// errno digs the syscall.Errno out of an *os.PathError
// or *os.SyscallError, so callers can compare against ENXIO.
func errno(err error) error {
	switch e := err.(type) {
	case *os.PathError:
		return e.Err
	case *os.SyscallError:
		return e.Err
	}
	return err
}

// isErrno reports whether err carries the given errno.
func isErrno(err error, want syscall.Errno) bool {
	e, ok := errno(err).(syscall.Errno)
	return ok && e == want
}
