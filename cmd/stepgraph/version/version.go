package version

import (
	"fmt"
	"io"
)

// Version is set at build time with -ldflags "-X ...version.Version=v1.2.3".
var Version = "dev"

// Fprint writes version information to w.
func Fprint(w io.Writer) {
	fmt.Fprintf(w, "stepgraph version %s\n", Version)
}
