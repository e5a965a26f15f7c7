// Command mvcdemo serves a small application built on the controller
// framework: sessions, remember-me login, cached async actions and templates.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
