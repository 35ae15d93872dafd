package main

import (
	"github.com/mchmarny/phaseid/pkg/cli"
)

func main() {
	cli.Execute()
}
