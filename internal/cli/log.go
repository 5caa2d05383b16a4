package cli

import (
	"io"
	"os"
)

// logStream receives diagnostics so stdout stays machine readable.
var logStream io.Writer = os.Stderr
