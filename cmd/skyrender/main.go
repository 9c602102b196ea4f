// Command skyrender renders a generation result headlessly: it loads the
// photograph the way the viewer does, draws the constellation over it, and
// writes a PNG.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
