package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"
)

// VersionCmdStr is printed by the version command. Execute fills it in with
// the version, platform and, when known, the build date and commit.
var VersionCmdStr string

var (
	showAppHelpAndExit = cli.ShowAppHelpAndExit
	showCommandHelp    = cli.ShowCommandHelp

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetShowAppHelpAndExit swaps the app help printer and returns the previous
// one. Tests use it to avoid os.Exit.
func SetShowAppHelpAndExit(fn func(*cli.Context, int)) func(*cli.Context, int) {
	prev := showAppHelpAndExit
	showAppHelpAndExit = fn
	return prev
}

// SetShowCommandHelp swaps the command help printer and returns the previous one.
func SetShowCommandHelp(fn func(*cli.Context, string) error) func(*cli.Context, string) error {
	prev := showCommandHelp
	showCommandHelp = fn
	return prev
}

// SetOutput redirects normal and error output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) (prevOut, prevErr io.Writer) {
	prevOut, prevErr = stdout, stderr
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
	return prevOut, prevErr
}

// Help shows the app help for no argument or "help", otherwise the help of
// the named command.
func Help(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" || arg == "help" {
		fmt.Fprintf(stdout, "%s %s\n", ctx.App.Name, ctx.App.Version)
		showAppHelpAndExit(ctx, 0)
		return nil
	}
	if err := showCommandHelp(ctx, arg); err != nil {
		return PrintErrWithHelp(ctx, err)
	}
	return nil
}

func GetVersion(ctx *cli.Context) error {
	fmt.Fprintln(stdout, VersionCmdStr)
	return nil
}

// PrintRuntimeErr reports err on stderr as "name: cmd[action]: err". ctx may
// be nil, in which case the name comes from os.Args[0].
func PrintRuntimeErr(ctx *cli.Context, cmd, action string, err error) {
	if err == nil {
		fmt.Fprintln(stderr, "err is nil", "[", cmd, "|", action, "]")
		return
	}
	name := os.Args[0]
	if ctx != nil && ctx.App != nil {
		name = ctx.App.HelpName
	}
	fmt.Fprintf(stderr, "%s: %s[%s]: %s\n", name, cmd, action, err.Error())
}

// PrintErrWithCmdHelp prints err followed by the current command's help.
func PrintErrWithCmdHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			if err := showCommandHelp(ctx, ctx.Command.Name); err != nil {
				fmt.Fprintln(stderr, err.Error())
			}
		},
	)
}

// PrintErrWithHelp prints err followed by the app help and exits with 1.
func PrintErrWithHelp(ctx *cli.Context, err error) error {
	return printErrWithCallback(
		ctx,
		err,
		func() {
			showAppHelpAndExit(ctx, 1)
		},
	)
}

func printErrWithCallback(ctx *cli.Context, err error, callback func()) error {
	if err == nil {
		return nil
	}
	estr := strings.ToLower(err.Error())
	if estr == "flag: help requested" {
		return Help(ctx)
	}
	if strings.Contains(estr, "-version") {
		return GetVersion(ctx)
	}
	fmt.Fprintf(stderr, "%s: %s\n\n", ctx.App.HelpName, err.Error())
	callback()
	return nil
}

// UsageErrorCallback is the OnUsageError hook for the app and its commands.
func UsageErrorCallback(ctx *cli.Context, err error, _ bool) error {
	if ctx.Command.Name != "" {
		return PrintErrWithCmdHelp(ctx, err)
	}
	return PrintErrWithHelp(ctx, err)
}
