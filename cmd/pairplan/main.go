// Command pairplan turns pairwise "which comes first?" answers into an
// execution plan.
package main

import "github.com/papapumpkin/pairplan/cmd"

func main() {
	cmd.Execute()
}
