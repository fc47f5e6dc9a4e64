package main

import "github.com/theirongolddev/adsim/cmd"

func main() {
	cmd.Execute()
}
