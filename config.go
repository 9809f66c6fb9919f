package seekhole

import (
	"flag"
	"strconv"

	"github.com/pkg/errors"
)

const (
	// DefaultMaxHoles bounds how many holes one run reports.
	DefaultMaxHoles = 10

	// DefaultExtentCount is how many extents each query asks for.
	// The walker consults only the first, so 2 is plenty.
	DefaultExtentCount = 2

	// MaxExtentCount is the largest buffer we will allocate.
	// The linux filefrag utility uses 292, so we use the same.
	MaxExtentCount = 292

	// DefaultMaxQueries stops a walk that makes no headway
	// even when every query looks valid.
	DefaultMaxQueries = 1 << 20
)

// Config holds the knobs for one walk.
type Config struct {
	Path       string
	StartBlock int64

	MaxHoles    int
	ExtentCount int
	MaxQueries  int64

	UseSeek    bool
	ReportTail bool
	Quiet      bool

	Verbose        bool
	VerboseVerbose bool
}

func NewConfig() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

func (c *Config) SetFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.MaxHoles, "max-holes", DefaultMaxHoles, "stop after reporting this many holes")
	fs.IntVar(&c.ExtentCount, "extents", DefaultExtentCount, "extents to request per query (1..292)")
	fs.Int64Var(&c.MaxQueries, "max-queries", DefaultMaxQueries, "hard cap on extent queries per walk")
	fs.BoolVar(&c.UseSeek, "seek", false, "map extents with lseek SEEK_DATA/SEEK_HOLE instead of the FIEMAP ioctl")
	fs.BoolVar(&c.ReportTail, "tail", false, "also report the hole between the last extent and end of file")
	fs.BoolVar(&c.Quiet, "q", false, "quiet: do not print a line per query")
	fs.BoolVar(&c.Verbose, "v", false, "verbose debug trace on stderr")
	fs.BoolVar(&c.VerboseVerbose, "vv", false, "very verbose: also dump raw kernel structures")
}

// SetDefaults fills in any zero-valued limits.
func (c *Config) SetDefaults() {
	if c.MaxHoles == 0 {
		c.MaxHoles = DefaultMaxHoles
	}
	if c.ExtentCount == 0 {
		c.ExtentCount = DefaultExtentCount
	}
	if c.MaxQueries == 0 {
		c.MaxQueries = DefaultMaxQueries
	}
}

// FinishConfig takes the positional arguments left in fs
// after Parse: <path> [<start-block>].
func (c *Config) FinishConfig(fs *flag.FlagSet) (err error) {
	args := fs.Args()
	switch len(args) {
	case 0:
		return errors.New("must supply path to inspect")
	case 1, 2:
	default:
		return errors.Errorf("too many arguments: %q; want <path> [<start-block>]", args)
	}
	c.Path = args[0]
	if len(args) == 2 {
		c.StartBlock, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return errors.Wrapf(err, "bad start-block '%v'", args[1])
		}
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.StartBlock < 0 {
		return errors.Errorf("start-block must be >= 0; not %v", c.StartBlock)
	}
	if c.MaxHoles < 1 {
		return errors.Errorf("max-holes must be >= 1; not %v", c.MaxHoles)
	}
	if c.ExtentCount < 1 || c.ExtentCount > MaxExtentCount {
		return errors.Wrapf(ErrBadExtentCount, "extents=%v; want 1..%v", c.ExtentCount, MaxExtentCount)
	}
	if c.MaxQueries < 1 {
		return errors.Errorf("max-queries must be >= 1; not %v", c.MaxQueries)
	}
	return nil
}
