package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vasilecampeanu/openapi-codegen/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, cli.ErrUsage) {
		return 2
	}
	return 1
}
