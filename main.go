package main

import "github.com/gaurav-prasanna/pagesift/cmd"

func main() {
	cmd.Execute()
}
