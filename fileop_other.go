//go:build !linux && !darwin

package seekhole

import (
	"os"
)

// Windows has FSCTL_QUERY_ALLOCATED_RANGES rather than FIEMAP
// or SEEK_HOLE; neither mapper is wired up there yet.

func newFiemapMapper(fd *os.File, capacity int) (extentMapper, error) {
	return nil, ErrNotSupported
}

func newSeekMapper(fd *os.File) (extentMapper, error) {
	return nil, ErrNotSupported
}

func blockSizeOf(fd *os.File) (int64, error) {
	return 0, ErrNotSupported
}
