package main

import "github.com/candidatelabs/talentsync/cmd/talentsync/cmd"

// Version information set by the build system.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
