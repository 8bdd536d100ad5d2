package main

import (
	"os"

	"vlmd/internal/vlmctl"
)

func main() {
	os.Exit(vlmctl.Run(os.Args[1:]))
}
