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

package preninja

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"shanhu.io/misc/errcode"
)

// GlobFunc expands a file pattern into the sorted list of matching files.
// It returns an empty list when nothing matches.
type GlobFunc func(pattern string) ([]string, error)

func expandHome(pattern string) (string, error) {
	if pattern != "~" && !strings.HasPrefix(pattern, "~/") {
		return pattern, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errcode.Annotate(err, "get home dir")
	}
	return home + strings.TrimPrefix(pattern, "~"), nil
}

// DirGlob returns a GlobFunc that matches relative patterns under dir, and
// returns the matches relative to dir. Patterns support "**" for any
// number of directories. Only regular files match.
func DirGlob(dir string) GlobFunc {
	return func(pattern string) ([]string, error) {
		p, err := expandHome(pattern)
		if err != nil {
			return nil, err
		}
		p = filepath.FromSlash(p)

		rel := dir != "" && !filepath.IsAbs(p)
		if rel {
			p = filepath.Join(dir, p)
		}

		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errcode.Annotatef(err, "glob %q", pattern)
		}

		var files []string
		for _, m := range matches {
			if rel {
				r, err := filepath.Rel(dir, m)
				if err != nil {
					return nil, errcode.Annotatef(
						err, "get relative path for %q", m,
					)
				}
				m = r
			}
			files = append(files, filepath.ToSlash(m))
		}
		sort.Strings(files)
		return files, nil
	}
}
