package main

import (
	"log"
	"os"
)

// Prefix is set at build time with -ldflags "-X main.Prefix=..." or from the PREFIX env var.
var Prefix string

func init() {
	if p := os.Getenv("PREFIX"); p != "" {
		Prefix = p
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags)
	if Prefix != "" {
		log.SetPrefix(Prefix + " ")
	}
}
