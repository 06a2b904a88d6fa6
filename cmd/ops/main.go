package main

import "github.com/fastygo/hunter/cmd/ops/root"

func main() {
	root.Execute()
}
