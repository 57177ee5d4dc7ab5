package main

import "github.com/OWASP-BLT/BLT-Hackathon/cmd"

func main() {
	cmd.Execute()
}
