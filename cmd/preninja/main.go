// Command preninja compiles build.preninja into build.ninja.
package main

import (
	"github.com/pitust/preninja/preninjabin"
)

func main() { preninjabin.Main() }
