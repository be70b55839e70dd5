package main

import "github.com/atwupack/owasp-dependency-check/cmd"

func main() {
	cmd.Execute()
}
