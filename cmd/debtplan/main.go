// Command debtplan runs payoff plans from a TOML scenario file.
//
//	debtplan init plan.toml
//	debtplan simulate -s plan.toml --extra 300
//	debtplan compare -s plan.toml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
