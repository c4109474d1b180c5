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
	"errors"
	"fmt"
	"strings"

	"shanhu.io/text/lexing"
)

// Errors that can fail a compilation. Use errors.Is to match them.
var (
	ErrUnknownRule       = errors.New("unknown rule")
	ErrUnknownGroup      = errors.New("unknown group")
	ErrDuplicateGroup    = errors.New("duplicate group")
	ErrDuplicateRule     = errors.New("duplicate rule")
	ErrExtensionMismatch = errors.New("extension mismatch")
	ErrUnexpectedOutput  = errors.New("unexpected output")
	ErrMissingOutput     = errors.New("missing output")
	ErrNoMatch           = errors.New("no match")
	ErrInvalidNode       = errors.New("invalid node")
	ErrOutputCollision   = errors.New("output collision")
)

// Error is an error found when compiling a spec document.
type Error struct {
	Kind  error       // One of the Err* values above.
	Pos   *lexing.Pos // Where in the document, might be nil.
	Trace []string    // Rules being resolved, outermost first.
	Msg   string
}

func (e *Error) Error() string {
	if len(e.Trace) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (in %s)", e.Msg, strings.Join(e.Trace, " > "))
}

// Unwrap returns the kind of the error.
func (e *Error) Unwrap() error { return e.Kind }

func errorf(kind error, pos *lexing.Pos, f string, args ...interface{}) *Error {
	return &Error{
		Kind: kind,
		Pos:  pos,
		Msg:  fmt.Sprintf(f, args...),
	}
}

func lexErr(err error) *lexing.Error {
	var e *Error
	if errors.As(err, &e) {
		return &lexing.Error{Pos: e.Pos, Err: e}
	}
	return &lexing.Error{Err: err}
}

func lexErrs(err error) []*lexing.Error {
	return []*lexing.Error{lexErr(err)}
}
