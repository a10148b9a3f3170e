package runner

import (
	"fmt"
	"sort"
)

// RunConfig is the opaque run-configuration parameter map supplied by the
// harness's project configuration (host, port, discriminator,
// commissioning parameters, and so on). The bridge passes it through as
// CLI flags without interpreting it.
type RunConfig map[string]string

// The runner negotiates the commissioning method itself, so the flag is
// never forwarded.
const commissioningMethodParam = "commissioning-method"

// GenerateArguments renders the run configuration into CLI tokens for the
// runner invocation, in deterministic (sorted) parameter order. Empty
// values render as bare flags.
func GenerateArguments(cfg RunConfig, omitCommissioningMethod bool) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		if omitCommissioningMethod && k == commissioningMethodParam {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var args []string
	for _, k := range keys {
		flag := fmt.Sprintf("--%s", k)
		if cfg[k] == "" {
			args = append(args, flag)
			continue
		}
		args = append(args, flag, cfg[k])
	}
	return args
}
