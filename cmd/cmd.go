package cmd

import (
	"fmt"
	"io/fs"
	"runtime"

	"github.com/lugvitc/antigravity-tray/cmd/common"
	"github.com/lugvitc/antigravity-tray/internal/misc"
	"github.com/urfave/cli"
)

// BuildArgs contains build-time information passed to the CLI application.
// These values are typically injected during the build process via ldflags.
type BuildArgs struct {
	// Version is the semantic version of the application.
	Version string
	// BuildType indicates the build variant (e.g., "release", "debug").
	BuildType string
	// Date is the build timestamp in a human-readable format.
	Date string
	// Commit is the git commit hash from which the build was created.
	Commit string
	// Icon is the PNG shown in the tray and the window.
	Icon []byte
}

var currentBuildArgs BuildArgs

func GetApp(assets fs.FS, bArgs BuildArgs) *cli.App {
	commands := []cli.Command{
		{
			Name:    "help",
			Aliases: []string{"h"},
			Usage:   "prints the help message",
			Action:  common.Help,
		},
		{
			Name:               "version",
			Aliases:            []string{"v"},
			Usage:              "prints installed version",
			UsageText:          " ",
			CustomHelpTemplate: CMD_HELP_TEMPL,
			Action:             common.GetVersion,
		},
		autostartCommand(),
	}

	return &cli.App{
		Name:                  misc.APP_NAME,
		HelpName:              misc.APP_NAME,
		Usage:                 "tray shell for the Antigravity Claude Proxy dashboard",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             misc.APP_NAME + " [--hidden] [--config FILE] [command]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands:              commands,
		Flags: []cli.Flag{
			cli.BoolFlag{
				Name:  "hidden",
				Usage: "start with the window hidden in the tray",
			},
			cli.StringFlag{
				Name:   "config, c",
				Usage:  "read configuration from `FILE`",
				EnvVar: "ACP_CONFIG",
			},
		},
		Action:                 run(assets),
		UseShortOptionHandling: true,
		HideHelp:               true,
		HideVersion:            true,
	}
}

func Execute(args []string, assets fs.FS, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	if len(args) > 1 {
		launchArgs = append([]string(nil), args[1:]...)
	}

	app := GetApp(assets, bArgs)

	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)

	if bArgs.Commit != "" && bArgs.Date != "" {
		common.VersionCmdStr += fmt.Sprintf("Build: %s=%s\n", bArgs.Date, bArgs.Commit)
	}

	return app.Run(args)
}
