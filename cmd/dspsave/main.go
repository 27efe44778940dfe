// Command dspsave decodes, encodes, and inspects Dyson Sphere Program
// save (.dsv) and blueprint files against an external schema document.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dspsave:", err)
		os.Exit(1)
	}
}
