//go:build darwin

package seekhole

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// APFS has no FIEMAP. Its closest relatives are
// FSCTL_FIOSEEKHOLE / FSCTL_FIOSEEKDATA, which is what
// lseek(SEEK_HOLE/SEEK_DATA) uses; so run with -seek.
func newFiemapMapper(fd *os.File, capacity int) (extentMapper, error) {
	return nil, errors.Wrap(ErrNotSupported, "no FIEMAP on darwin; use -seek")
}

// blockSizeOf uses st_blksize, since darwin has no FIGETBSZ.
// That is 4096 on APFS, the same as the minimum hole size.
func blockSizeOf(fd *os.File) (int64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(fd.Fd()), &st); err != nil {
		return 0, errors.Wrap(err, "fstat")
	}
	return int64(st.Blksize), nil
}
