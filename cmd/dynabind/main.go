// Package main provides the dynabind CLI.
package main

import (
	"github.com/leapstack-labs/dynabind/internal/cli"
)

func main() {
	cli.Execute()
}
