// Command vivi is a terminal chat client for the Vivi IA knowledge base.
package main

import "github.com/vivi-ia/vivi/internal/cli"

func main() {
	cli.Execute()
}
