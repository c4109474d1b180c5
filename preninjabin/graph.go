package preninjabin

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pitust/preninja"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/jsonutil"
)

func cmdGraph(args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	flags := cmdFlags.New()
	declareSpecFlags(flags, s)
	out := flags.String(
		"json", "build.graph.json", "json file to write, relative to -dir",
	)
	flags.ParseArgs(args)

	sess, err := newSession(s)
	if err != nil {
		return err
	}
	defer sess.log.Sync()

	res, errs := sess.compiler.Build(context.Background(), s.path(s.Spec))
	if errs != nil {
		return sess.errs(errs, "compile")
	}
	f := s.path(*out)
	if err := jsonutil.WriteFile(f, res.Graph); err != nil {
		return errcode.Annotatef(err, "write %q", f)
	}
	return nil
}

func cmdRules(args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	flags := cmdFlags.New()
	declareSpecFlags(flags, s)
	flags.ParseArgs(args)

	sess, err := newSession(s)
	if err != nil {
		return err
	}
	spec, errs := preninja.ReadSpec(s.path(s.Spec))
	if errs != nil {
		return sess.errs(errs, "read spec")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, r := range spec.MapRules {
		fmt.Fprintf(w, "%s\tmap\t%s -> %s\n", r.Name, r.In, r.Out)
	}
	for _, r := range spec.ReduceRules {
		fmt.Fprintf(w, "%s\treduce\t\n", r.Name)
	}
	return w.Flush()
}
