//go:build linux

package seekhole

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// _IOWR('f', 11, struct fiemap), from <linux/fs.h>.
	fsIocFiemap = 0xC020660B

	// _IO(0x00, 2), from <linux/fs.h>.
	figetbsz = 2

	// map to the end of the file, whatever that is.
	fiemapMaxOffset = ^uint64(0)

	// sync file data before map, so fresh writes show up.
	fiemapFlagSync = 0x0001
)

// struct fiemap from <linux/fiemap.h>, minus the
// flexible fm_extents[] array that follows it.
type fiemap struct {
	Start         uint64 // logical offset (inclusive) at which to start mapping (in)
	Length        uint64 // logical length of mapping which userspace wants (in)
	Flags         uint32 // FIEMAP_FLAG_* flags for request (in/out)
	MappedExtents uint32 // number of extents that were mapped (out)
	ExtentCount   uint32 // size of fm_extents array (in)
	Reserved      uint32
}

// struct fiemap_extent from <linux/fiemap.h>
type fiemapExtent struct {
	Logical    uint64 // logical offset in bytes for the start of the extent
	Physical   uint64 // physical offset in bytes for the start of the extent
	Length     uint64 // length in bytes for this extent
	Reserved64 [2]uint64
	Flags      uint32 // FIEMAP_EXTENT_* flags for this extent
	Reserved   [3]uint32
}

const (
	fiemapSize       = unsafe.Sizeof(fiemap{})       // 32
	fiemapExtentSize = unsafe.Sizeof(fiemapExtent{}) // 56
)

// fiemapMapper owns one query buffer for the life of the
// session. The buffer is uint64 backed so the header and the
// extent array that follows it are 8-byte aligned.
type fiemapMapper struct {
	fd       *os.File
	capacity uint32
	words    []uint64
	hdr      *fiemap
	extents  []fiemapExtent
	out      []Extent
}

func newFiemapMapper(fd *os.File, capacity int) (m *fiemapMapper, err error) {
	if capacity < 1 || capacity > MaxExtentCount {
		return nil, errors.Wrapf(ErrBadExtentCount, "capacity %v", capacity)
	}
	nbyte := fiemapSize + uintptr(capacity)*fiemapExtentSize
	m = &fiemapMapper{
		fd:       fd,
		capacity: uint32(capacity),
		words:    make([]uint64, nbyte/8),
		out:      make([]Extent, 0, capacity),
	}
	m.hdr = (*fiemap)(unsafe.Pointer(&m.words[0]))
	m.extents = unsafe.Slice((*fiemapExtent)(unsafe.Pointer(&m.words[fiemapSize/8])), capacity)
	return m, nil
}

func (m *fiemapMapper) mapExtents(start uint64) ([]Extent, error) {
	// (in) fields; the out fields get zeroed too since
	// the buffer is reused across calls.
	m.hdr.Start = start
	m.hdr.Length = fiemapMaxOffset
	m.hdr.Flags = fiemapFlagSync
	m.hdr.ExtentCount = m.capacity
	m.hdr.MappedExtents = 0

	_, _, e := unix.Syscall(
		unix.SYS_IOCTL,
		m.fd.Fd(),
		uintptr(fsIocFiemap),
		uintptr(unsafe.Pointer(m.hdr)),
	)
	if e != 0 {
		return nil, errors.Wrapf(e, "ioctl(FS_IOC_FIEMAP) from byte %v", start)
	}
	got := m.hdr.MappedExtents
	pp("fiemap from %v: mapped %v of %v; hdr = '%#v'", start, got, m.capacity, *m.hdr)
	if got > m.capacity {
		return nil, errors.Wrapf(ErrExtentOverflow, "kernel mapped %v into room for %v", got, m.capacity)
	}

	m.out = m.out[:0]
	for i := range m.extents[:got] {
		x := &m.extents[i]
		pp("extent[%v] = '%#v'", i, *x)
		m.out = append(m.out, Extent{
			Logical: x.Logical,
			Length:  x.Length,
			Flags:   x.Flags,
		})
	}
	return m.out, nil
}

// blockSizeOf asks the filesystem for its logical block
// size with the FIGETBSZ ioctl.
func blockSizeOf(fd *os.File) (int64, error) {
	bs, err := unix.IoctlGetInt(int(fd.Fd()), figetbsz)
	if err != nil {
		return 0, errors.Wrap(err, "ioctl(FIGETBSZ)")
	}
	return int64(bs), nil
}
