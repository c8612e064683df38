// Command bazi prints Four Pillars charts, lunisolar dates and solar terms.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
