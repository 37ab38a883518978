package main

import (
	"os"

	"github.com/pangyre/catalyst-runtime/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
