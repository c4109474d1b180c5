package preninja

import (
	"fmt"
	"strings"
)

// outRoot is the directory that holds all derived outputs.
const outRoot = "build/"

// canonicalOut maps dep, a file that ends with the in suffix, to the output
// file that a map rule with suffixes in and out produces from it.
//
// Outputs are flat: all path separators are replaced by dots, so every
// output lives directly under outRoot. An output that is already under
// outRoot does not get nested again.
func canonicalOut(dep, in, out string) (string, error) {
	if !strings.HasSuffix(dep, in) {
		return "", fmt.Errorf(
			"%w: %q does not end with %q", ErrExtensionMismatch, dep, in,
		)
	}
	p := strings.TrimSuffix(dep, in) + out
	p = strings.TrimPrefix(p, outRoot)
	p = strings.ReplaceAll(p, "/", ".")
	return outRoot + p, nil
}
