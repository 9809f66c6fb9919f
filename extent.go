package seekhole

import (
	"fmt"
	"strings"
)

// fiemap flag values, from /usr/include/linux/fiemap.h
const (
	FIEMAP_EXTENT_LAST           = 0x00000001 // Last extent in file.
	FIEMAP_EXTENT_UNKNOWN        = 0x00000002 // Data location unknown.
	FIEMAP_EXTENT_DELALLOC       = 0x00000004 // Location still pending. Sets EXTENT_UNKNOWN.
	FIEMAP_EXTENT_ENCODED        = 0x00000008 // Data can not be read while fs is unmounted
	FIEMAP_EXTENT_DATA_ENCRYPTED = 0x00000080 // Data is encrypted by fs. Sets EXTENT_NO_BYPASS.
	FIEMAP_EXTENT_NOT_ALIGNED    = 0x00000100 // Extent offsets may not be block aligned.
	FIEMAP_EXTENT_DATA_INLINE    = 0x00000200 // Data mixed with metadata. Sets EXTENT_NOT_ALIGNED.
	FIEMAP_EXTENT_DATA_TAIL      = 0x00000400 // Multiple files in block. Sets EXTENT_NOT_ALIGNED.
	FIEMAP_EXTENT_UNWRITTEN      = 0x00000800 // Space allocated, but no data (i.e. zero).
	FIEMAP_EXTENT_MERGED         = 0x00001000 // File does not natively support extents. Result merged for efficiency.
	FIEMAP_EXTENT_SHARED         = 0x00002000 // Space shared with other files.
)

// names in the order filefrag -v prints them.
var extentFlagNames = []struct {
	bit  uint32
	name string
}{
	{FIEMAP_EXTENT_LAST, "last"},
	{FIEMAP_EXTENT_UNKNOWN, "unknown_loc"},
	{FIEMAP_EXTENT_DELALLOC, "delalloc"},
	{FIEMAP_EXTENT_ENCODED, "encoded"},
	{FIEMAP_EXTENT_DATA_ENCRYPTED, "encrypted"},
	{FIEMAP_EXTENT_NOT_ALIGNED, "not_aligned"},
	{FIEMAP_EXTENT_DATA_INLINE, "inline"},
	{FIEMAP_EXTENT_DATA_TAIL, "tail_packed"},
	{FIEMAP_EXTENT_UNWRITTEN, "unwritten"},
	{FIEMAP_EXTENT_MERGED, "merged"},
	{FIEMAP_EXTENT_SHARED, "shared"},
}

// FlagString names the FIEMAP_EXTENT_* bits set in flags,
// comma separated. Bits without a name are shown in hex.
// Zero flags give the empty string.
func FlagString(flags uint32) string {
	if flags == 0 {
		return ""
	}
	var names []string
	rest := flags
	for _, f := range extentFlagNames {
		if flags&f.bit != 0 {
			names = append(names, f.name)
			rest &^= f.bit
		}
	}
	if rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", rest))
	}
	return strings.Join(names, ",")
}

// Extent is one allocated range of a file, as the kernel
// reports it. Logical and Length are in bytes.
type Extent struct {
	Logical uint64
	Length  uint64
	Flags   uint32
}

func (e Extent) String() string {
	return fmt.Sprintf("Extent{Logical:%v, Length:%v, Flags:%q}", e.Logical, e.Length, FlagString(e.Flags))
}

// Hole is a gap between allocated extents, in blocks.
// End is inclusive, so Length == End - Start + 1.
type Hole struct {
	Start  int64
	End    int64
	Length int64
}

func (h Hole) String() string {
	return fmt.Sprintf("Hole from %v to %v with length %v", h.Start, h.End, h.Length)
}

// extentMapper is the query primitive under a Session.
// mapExtents returns the allocated extents that overlap or
// follow byte offset start, in logical order, at most as many
// as the mapper's buffer holds. No extents and a nil error
// means there is nothing allocated at or after start.
type extentMapper interface {
	mapExtents(start uint64) ([]Extent, error)
}
