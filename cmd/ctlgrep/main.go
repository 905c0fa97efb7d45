package main

import (
	"os"

	"ctlgrep/internal/ctlgrepcli"
)

func main() {
	root := ctlgrepcli.NewRootCommand()
	root.SetArgs(ctlgrepcli.RewriteArgsForImplicitQ(root, os.Args[1:]))
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
