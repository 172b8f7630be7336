package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/dictcore/internal/cli/output"
	"github.com/yndnr/dictcore/internal/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[FILE]",
				Action:    configValidate,
			},
		},
	}
}

// configShow prints the merged configuration. Tables cannot show nested
// sections, so the table format falls back to YAML.
func configShow(c *cli.Context) error {
	f := formatterFrom(c)
	if _, ok := f.(*output.TableFormatter); ok {
		f = &output.YAMLFormatter{}
	}
	return f.Format(outWriter(c), configFrom(c))
}

func configValidate(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = ParseGlobalFlags(c).Config
	}
	if path == "" {
		return fmt.Errorf("no configuration file given")
	}
	if _, err := config.Load(path, nil); err != nil {
		return err
	}
	_, err := fmt.Fprintf(outWriter(c), "%s: configuration is valid\n", path)
	return err
}
