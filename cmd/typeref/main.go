// Command typeref substitutes concrete types into generic type references
// described by session documents.
package main

import (
	"os"

	"github.com/funvibe/typeref/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.New(os.Stderr, false).Error("error", err)
		os.Exit(1)
	}
}
