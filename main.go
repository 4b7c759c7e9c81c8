package main

import "github.com/coreybb/checkin/cmd"

func main() {
	cmd.Execute()
}
