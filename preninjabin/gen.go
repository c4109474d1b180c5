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
	"context"
	"os"

	"github.com/pitust/preninja"
	"go.uber.org/zap"
	"shanhu.io/misc/errcode"
	"shanhu.io/text/lexing"
)

type session struct {
	settings *settings
	compiler *preninja.Compiler
	log      *zap.Logger
	wd       string
}

func newSession(s *settings) (*session, error) {
	log, err := preninja.NewLogger(s.LogLevel, s.LogDev)
	if err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, errcode.Annotate(err, "get work dir")
	}

	c := preninja.NewCompiler(&preninja.Config{
		Dir:         s.Dir,
		Reconfigure: os.Args[0],
		Flags:       &preninja.PkgConfig{Bin: s.PkgConfig, Dir: s.Dir},
		Logger:      log,
	})
	return &session{
		settings: s,
		compiler: c,
		log:      log,
		wd:       wd,
	}, nil
}

func (s *session) errs(errs []*lexing.Error, what string) error {
	lexing.FprintErrs(os.Stderr, errs, s.wd)
	return errcode.InvalidArgf("%s got %d errors", what, len(errs))
}

func cmdGen(args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	flags := cmdFlags.New()
	declareSpecFlags(flags, s)
	flags.StringVar(
		&s.Out, "out", s.Out, "ninja file to write, relative to -dir",
	)
	flags.ParseArgs(args)

	sess, err := newSession(s)
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	ctx := context.Background()
	if _, errs := sess.compiler.Generate(
		ctx, s.path(s.Spec), s.path(s.Out),
	); errs != nil {
		return sess.errs(errs, "generate")
	}
	return nil
}
