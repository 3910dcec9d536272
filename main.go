package main

import "github.com/mj1618/stepcast/cmd"

func main() {
	cmd.Execute()
}
