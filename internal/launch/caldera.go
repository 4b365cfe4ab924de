// caldera.go rewrites a launch for the anti-cheat wrapper the caldera
// service assigned.
package launch

import (
	"fmt"
	"path/filepath"

	"github.com/eric-dev/eric/internal/epic"
)

// anti-cheat shipping executables by caldera provider.
const shippingBase = "FortniteClient-Win64-Shipping"

// ApplyCaldera swaps the launch target for the assigned anti-cheat
// executable and appends the caldera JWT arguments. It returns an error
// for providers this launcher does not know how to start.
func ApplyCaldera(opts *Options, resp *epic.CalderaResponse) error {
	gameDir := filepath.Dir(opts.Executable)

	calderaArgs := []string{"-caldera=" + resp.JWT}
	var exe string
	switch resp.Provider {
	case "EasyAntiCheatEOS":
		calderaArgs = append(calderaArgs, "-fromfl=eaceos", "-noeac", "-nobe")
		exe = shippingBase + "_EAC_EOS.exe"
	case "EasyAntiCheat":
		calderaArgs = append(calderaArgs, "-fromfl=eac", "-noeaceos", "-nobe")
		exe = shippingBase + "_EAC.exe"
	case "BattlEye":
		calderaArgs = append(calderaArgs, "-fromfl=be", "-noeaceos", "-noeac")
		exe = shippingBase + "_BE.exe"
	default:
		return fmt.Errorf("unknown caldera provider %q", resp.Provider)
	}

	opts.Executable = filepath.Join(gameDir, exe)
	opts.ExtraArgs = append(opts.ExtraArgs, calderaArgs...)
	return nil
}
