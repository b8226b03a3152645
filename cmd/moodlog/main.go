// Command moodlog is the mood journal CLI. Run `moodlog --help` for the
// subcommands; `moodlog serve` starts the local JSON API.
package main

import (
	"context"
	"os"

	"github.com/sakif/moodlog/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background()))
}
