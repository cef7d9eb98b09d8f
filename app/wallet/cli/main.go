package main

import "github.com/ardanlabs/blocker/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
