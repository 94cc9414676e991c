package config

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// Sources chains the given environment variables, then key in the
// configuration file *path names. The path is dereferenced when the flag
// is resolved, after the command line has been parsed, so a --config flag
// with *path as its destination takes effect.
func Sources(key string, path *string, envs ...string) cli.ValueSourceChain {
	chain := make([]cli.ValueSource, 0, len(envs)+1)
	for _, e := range envs {
		chain = append(chain, cli.EnvVar(e))
	}
	chain = append(chain, yaml.YAML(key, altsrc.NewStringPtrSourcer(path)))
	return cli.NewValueSourceChain(chain...)
}

// Explicit returns the value of the named flag only when it was given on
// the command line. Its default is a candidate location that may not exist.
func Explicit(cmd *cli.Command, name string) string {
	if cmd.IsSet(name) {
		return cmd.String(name)
	}
	return ""
}
