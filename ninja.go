package preninja

import (
	"bytes"
	"fmt"
	"strings"
)

// ninjaLineWidth is the width after which a build line wraps.
const ninjaLineWidth = 80

const ninjaIndent = "    "

// writeBuild writes a ninja build statement. A line wraps with " $" after
// the input that makes it longer than ninjaLineWidth, and continues with
// six spaces.
func writeBuild(b *bytes.Buffer, out, rule string, ins []string) {
	line := fmt.Sprintf("build %s: %s", out, rule)
	for i, in := range ins {
		line += " " + in
		if len(line) > ninjaLineWidth && i < len(ins)-1 {
			b.WriteString(line + " $\n")
			line = "      "
		}
	}
	b.WriteString(line + "\n")
}

func writeRule(b *bytes.Buffer, name string, vars ...string) {
	fmt.Fprintf(b, "rule %s\n", name)
	for i := 0; i+1 < len(vars); i += 2 {
		fmt.Fprintf(b, "%s%s = %s\n", ninjaIndent, vars[i], vars[i+1])
	}
}

type ninjaFile struct {
	spec   *Spec
	vars   Vars
	graph  *Graph
	reconf string // Command of the reconfigure rule.
}

func (f *ninjaFile) writeVars(b *bytes.Buffer) {
	b.WriteString("# variables\n")
	for _, name := range f.vars.Names() {
		fmt.Fprintf(b, "%s = %s\n", name, f.vars[name])
	}
}

func (f *ninjaFile) writeRules(b *bytes.Buffer) {
	b.WriteString("# map rules\n")
	for _, r := range f.spec.MapRules {
		vars := []string{
			"command", r.Cmd,
			"description", r.Name + " $out",
		}
		if r.HasDepfile() {
			vars = append(vars, "deps", r.DepsStyle(), "depfile", "$depfile")
		}
		writeRule(b, r.Name, vars...)
	}

	b.WriteString("# reduce rules\n")
	for _, r := range f.spec.ReduceRules {
		writeRule(b, r.Name,
			"command", r.Cmd,
			"description", r.Name+" $out",
		)
	}
}

func (f *ninjaFile) features() *Features {
	if f.spec.Features == nil {
		return new(Features)
	}
	return f.spec.Features
}

func (f *ninjaFile) writeFeatureRules(b *bytes.Buffer) {
	feat := f.features()
	b.WriteString("# feature rules\n")
	if feat.HasInstall {
		writeRule(b, "install",
			"description", "install",
			"command", "install $in /usr/local/bin",
		)
	}
	if feat.Clean {
		writeRule(b, "clean",
			"description", "clean",
			"command", "rm -rf "+strings.TrimSuffix(outRoot, "/"),
		)
	}
	if feat.Reconf != "" {
		writeRule(b, "reconfigure",
			"description", "configure",
			"command", f.reconf,
		)
	}
	if feat.Run != "" {
		writeRule(b, "run",
			"description", "run",
			"pool", "console",
			"command", feat.Run,
		)
	}
}

func (f *ninjaFile) writeTargets(b *bytes.Buffer) {
	b.WriteString("# targets\n")
	for _, e := range f.graph.Edges {
		writeBuild(b, e.Out, e.Rule, e.Ins)
		if e.Depfile != "" {
			fmt.Fprintf(b, "%sdepfile = %s\n", ninjaIndent, e.Depfile)
		}
	}
}

func (f *ninjaFile) writePhonies(b *bytes.Buffer) {
	feat := f.features()
	b.WriteString("# phony targets\n")
	u := f.graph.Umbrella()
	writeBuild(b, u.Out, u.Rule, u.Ins)
	if feat.HasInstall {
		b.WriteString("build install: install")
		for _, name := range feat.Install {
			fmt.Fprintf(b, " %s", name)
		}
		b.WriteString("\n")
	}
	if feat.Clean {
		b.WriteString("build clean: clean\n")
	}
	if feat.Reconf != "" {
		fmt.Fprintf(b, "build %s: reconfigure\n", feat.Reconf)
	}
	if feat.Run != "" {
		fmt.Fprintf(b, "build run: run | %s\n", umbrellaTarget)
	}
	fmt.Fprintf(b, "default %s\n", umbrellaTarget)
}

func (f *ninjaFile) bytes() []byte {
	b := new(bytes.Buffer)
	f.writeVars(b)
	f.writeRules(b)
	f.writeFeatureRules(b)
	f.writeTargets(b)
	f.writePhonies(b)
	return b.Bytes()
}
