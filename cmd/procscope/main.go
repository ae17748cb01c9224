package main

import (
	"github.com/nkridge/procscope/internal/cli"
	"github.com/nkridge/procscope/pkg/maxprocs"
)

func main() {
	maxprocs.Adjust()
	cli.Execute()
}
