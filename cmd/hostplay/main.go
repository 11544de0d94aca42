package main

import (
	"os"

	"github.com/ml-doom/hostplay/internal"
)

func main() {
	os.Exit(internal.Main(os.Args))
}
