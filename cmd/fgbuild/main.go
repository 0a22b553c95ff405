package main

import (
	"github.com/fgtools/fgbuild/cmd/fgbuild/internal"
)

func main() {
	internal.Execute()
}
