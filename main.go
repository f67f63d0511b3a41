package main

import (
	_ "embed"

	"github.com/NguyenHai-LETI/Sync-Note/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
