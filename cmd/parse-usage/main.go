// Command parse-usage renders a GLM usage report from raw usage data.
package main

import "github.com/denysvitali/glm-usage/cmd"

func main() {
	cmd.ExecuteParseUsage()
}
