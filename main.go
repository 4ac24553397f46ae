// Package main provides the CLI for glm-usage.
package main

import "github.com/denysvitali/glm-usage/cmd"

func main() {
	cmd.Execute()
}
