package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"ctlgrep/internal/ctlgrepd"
)

func main() {
	listen := flag.String("listen", "127.0.0.1:7433", "listen address (tcp)")
	logDir := flag.String("log-dir", defaultLogDir(), "directory for the rotating daemon log")
	flag.Parse()

	if err := SetupLogging(DefaultLogConfig(*logDir)); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s := ctlgrepd.NewServer(ctlgrepd.Options{Listen: *listen})
	log.Printf("listening on %s", *listen)
	if err := s.Run(); err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			_, _ = fmt.Fprintf(os.Stderr, "listen address in use: %s\nTry: -listen 127.0.0.1:7434\n", *listen)
		} else {
			_, _ = fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ctlgrep"
	}
	return home + "/.ctlgrep"
}
