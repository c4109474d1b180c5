package preninjabin

import (
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"shanhu.io/misc/errcode"
	"shanhu.io/misc/flagutil"
)

var cmdFlags = flagutil.NewFactory("preninja")

// settings are the command line settings. Defaults come from PRENINJA_*
// environment variables and are overridden by flags.
type settings struct {
	Spec      string `envconfig:"SPEC" default:"build.preninja"`
	Out       string `envconfig:"OUT" default:"build.ninja"`
	Dir       string `envconfig:"DIR"`
	PkgConfig string `envconfig:"PKG_CONFIG" default:"pkg-config"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogDev    bool   `envconfig:"LOG_DEV" default:"true"`
}

func loadSettings() (*settings, error) {
	s := new(settings)
	if err := envconfig.Process("preninja", s); err != nil {
		return nil, errcode.Annotate(err, "load settings from env")
	}
	return s, nil
}

// path resolves a relative spec or output path against Dir, so that the
// ninja file sits in the same directory as the inputs it refers to.
func (s *settings) path(p string) string {
	if s.Dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

func declareSpecFlags(flags *flagutil.FlagSet, s *settings) {
	flags.StringVar(
		&s.Spec, "spec", s.Spec, "build file, relative to -dir",
	)
	flags.StringVar(
		&s.Dir, "dir", s.Dir,
		"project directory; file patterns and relative paths "+
			"are resolved in it",
	)
	flags.StringVar(&s.PkgConfig, "pkg_config", s.PkgConfig, "pkg-config binary")
	flags.StringVar(&s.LogLevel, "log_level", s.LogLevel, "log level")
	flags.BoolVar(&s.LogDev, "log_dev", s.LogDev, "human friendly logs")
}
