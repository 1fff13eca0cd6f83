// Command textblob converts enciphered game text containers to and from
// editable entry lists.
package main

import (
	"os"

	"github.com/roboco-io/textblob/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
