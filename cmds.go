package preninja

import (
	"context"
	"os"
	"os/exec"

	"shanhu.io/misc/osutil"
)

type execJob struct {
	dir  string
	bin  string
	args []string
}

func (j *execJob) command(ctx context.Context) *exec.Cmd {
	cmd := exec.CommandContext(ctx, j.bin, j.args...)
	cmd.Dir = j.dir
	cmd.Stderr = os.Stderr
	osutil.CmdCopyEnv(cmd, "HOME")
	osutil.CmdCopyEnv(cmd, "PATH")
	osutil.CmdCopyEnv(cmd, "PKG_CONFIG_PATH")
	osutil.CmdCopyEnv(cmd, "PKG_CONFIG_LIBDIR")
	osutil.CmdCopyEnv(cmd, "PKG_CONFIG_SYSROOT_DIR")
	return cmd
}

func runCmdOutput(
	ctx context.Context, dir, bin string, args ...string,
) ([]byte, error) {
	j := &execJob{
		dir:  dir,
		bin:  bin,
		args: args,
	}
	return j.command(ctx).Output()
}
