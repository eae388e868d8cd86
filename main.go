package main

import "github.com/chrisconley/payflow/cmd"

func main() {
	cmd.Execute()
}
