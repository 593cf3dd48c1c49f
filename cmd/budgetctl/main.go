/*
main.go - budgetctl, the offline budget projection CLI

PURPOSE:
  Runs the projection calculator against a plan file without a server.
  Plans are the same config the API accepts, as JSON or YAML.

COMMANDS:
  budgetctl init                         Print the demo plan as YAML
  budgetctl project --plan F --month N   Monthly budget table
  budgetctl year --plan F                Total row for every month
  budgetctl check --plan F [--strict]    Report months whose shares != 100%

SEE ALSO:
  - factory/plan.go: Plan file format
  - budget/calculator.go: Projection rules
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
