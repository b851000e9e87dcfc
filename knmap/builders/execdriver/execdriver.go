package execdriver

import (
	"os/exec"

	"github.com/pkg/errors"

	"github.com/mogaika/knmap_packer/config"
)

// ExecDriver shells out to an external scene compiler. The compiler contract:
//
//	<compiler> -platform <osx|win64> -scene <scene path> -out <bundle path>
//
// exit code 0 and the bundle file present at -out on success.
type ExecDriver struct {
	compilerPath string
}

func NewExecDriver(compilerPath string) *ExecDriver {
	return &ExecDriver{compilerPath: compilerPath}
}

func (d *ExecDriver) BuildBundle(platform config.Platform, scenePath string, outPath string) error {
	cmd := exec.Command(d.compilerPath,
		"-platform", platform.String(),
		"-scene", scenePath,
		"-out", outPath)

	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "Scene compiler failed: %s", string(out))
	}
	return nil
}
