package cmd

import (
	"fmt"

	"github.com/lugvitc/antigravity-tray/cmd/common"
	"github.com/lugvitc/antigravity-tray/internal/capability"
	"github.com/lugvitc/antigravity-tray/internal/misc"
	"github.com/urfave/cli"
)

var newAutostart = func(env *environment) (*capability.Autostart, error) {
	a := capability.NewAutostart(misc.APP_NAME, env.cfg.Autostart.AppName, env.cfg.Autostart.Args)
	reg := capability.NewRegistry(env.log.Named("capability"))
	if err := reg.Register(a); err != nil {
		return nil, err
	}
	if err := reg.SetupAll(); err != nil {
		return nil, err
	}
	return a, nil
}

func resolveEnvironment(ctx *cli.Context) (*environment, error) {
	paths, err := resolvePaths()
	if err != nil {
		return nil, err
	}
	return loadEnvironment(ctx, paths)
}

func autostartCommand() cli.Command {
	action := func(name string, fn func(*capability.Autostart) error) cli.Command {
		return cli.Command{
			Name:               name,
			Usage:              name + " start at login",
			UsageText:          " ",
			CustomHelpTemplate: CMD_HELP_TEMPL,
			OnUsageError:       common.UsageErrorCallback,
			Action: func(ctx *cli.Context) error {
				env, err := resolveEnvironment(ctx)
				if err != nil {
					common.PrintRuntimeErr(ctx, "autostart", name, err)
					return cli.NewExitError("", 1)
				}
				defer func() { _ = env.log.Sync() }()
				a, err := newAutostart(env)
				if err == nil {
					err = fn(a)
				}
				if err != nil {
					common.PrintRuntimeErr(ctx, "autostart", name, err)
					return cli.NewExitError("", 1)
				}
				return nil
			},
		}
	}
	return cli.Command{
		Name:  "autostart",
		Usage: "manages starting at login",
		Subcommands: []cli.Command{
			action("enable", func(a *capability.Autostart) error {
				if err := a.Enable(); err != nil {
					return err
				}
				fmt.Println("autostart enabled")
				return nil
			}),
			action("disable", func(a *capability.Autostart) error {
				if err := a.Disable(); err != nil {
					return err
				}
				fmt.Println("autostart disabled")
				return nil
			}),
			{
				Name:      "status",
				Usage:     "prints whether the app starts at login",
				UsageText: " ",
				Action: func(ctx *cli.Context) error {
					env, err := resolveEnvironment(ctx)
					if err != nil {
						common.PrintRuntimeErr(ctx, "autostart", "status", err)
						return cli.NewExitError("", 1)
					}
					a, err := newAutostart(env)
					if err != nil {
						common.PrintRuntimeErr(ctx, "autostart", "status", err)
						return cli.NewExitError("", 1)
					}
					if a.IsEnabled() {
						fmt.Println("enabled")
					} else {
						fmt.Println("disabled")
					}
					return nil
				},
			},
		},
	}
}
