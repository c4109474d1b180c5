// Copyright (C) 2022  Shanhu Tech Inc.
//
// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the
// Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License
// for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package preninjabin

import (
	"fmt"
	"os"
	"strings"

	"shanhu.io/misc/subcmd"
)

func cmd() *subcmd.List {
	c := subcmd.New()
	c.Add("gen", "writes the ninja build file", cmdGen)
	c.Add("graph", "writes the build graph as json", cmdGraph)
	c.Add("rules", "lists the rules in the build file", cmdRules)
	return c
}

// Main is the entrance for the preninja binary. Without a subcommand, it
// runs gen.
func Main() {
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		if err := cmdGen(os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	cmd().Main()
}
