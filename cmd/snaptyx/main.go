// Command snaptyx turns a directory tree into a plain-text snapshot and
// back.
package main

import "github.com/snaptyx/snaptyx/internal/cli"

func main() {
	cli.Execute()
}
