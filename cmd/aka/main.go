package main

import (
	"context"
	"os"
)

func main() {
	app := &App{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ(),
	}
	os.Exit(app.Main(context.Background(), os.Args))
}
