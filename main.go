// org-stats reports issue and commit totals for the repositories of a GitHub
// organization.
//
// Usage:
//
//	org-stats stats --org acme
package main

import "github.com/naka-gawa/org-stats/cmd"

func main() {
	cmd.Execute()
}
