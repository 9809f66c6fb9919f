package seekhole

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// set at build time with -ldflags "-X github.com/glycerine/seekhole.LAST_GIT_COMMIT_HASH=..."
var LAST_GIT_COMMIT_HASH string
var NEAREST_GIT_TAG string
var GO_VERSION string

func GetCodeVersion(programName string) string {
	return fmt.Sprintf("%s commit: %s / nearest-git-tag: %s / go version: %s\n",
		programName, LAST_GIT_COMMIT_HASH, NEAREST_GIT_TAG, GO_VERSION)
}

// VersionRequested reports whether -version or --version
// appears anywhere in args.
func VersionRequested(args []string) bool {
	for _, a := range args {
		if a == "-version" || a == "--version" {
			return true
		}
	}
	return false
}

func writeVersion(w io.Writer, programName string) {
	if bi, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(w, "%v version: %+v\n", programName, bi.Main.Version)
	}
	fmt.Fprintf(w, "\n%s\n", GetCodeVersion(programName))
}

// Exit1IfVersionReq prints the version to stderr and exits 1
// when -version was given, before any flag parsing.
func Exit1IfVersionReq() {
	if VersionRequested(os.Args[1:]) {
		writeVersion(os.Stderr, os.Args[0])
		os.Exit(1)
	}
}
