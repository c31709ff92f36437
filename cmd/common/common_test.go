package common

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

func testContext(t *testing.T) *cli.Context {
	t.Helper()
	app := cli.NewApp()
	app.Name = "tray"
	app.HelpName = "tray"
	app.Version = "1.0-test"
	return cli.NewContext(app, flag.NewFlagSet("tray", flag.ContinueOnError), nil)
}

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr := SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(prevOut, prevErr) })
	return &out, &errOut
}

func TestPrintRuntimeErr(t *testing.T) {
	_, errOut := captureOutput(t)
	PrintRuntimeErr(testContext(t), "run", "lock", errors.New("busy"))
	if got := errOut.String(); got != "tray: run[lock]: busy\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestUsageErrorShowsHelp(t *testing.T) {
	_, errOut := captureOutput(t)
	exitCode := -1
	prev := SetShowAppHelpAndExit(func(_ *cli.Context, code int) { exitCode = code })
	defer SetShowAppHelpAndExit(prev)

	if err := UsageErrorCallback(testContext(t), errors.New("flag provided but not defined: -x"), false); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(errOut.String(), "not defined") {
		t.Fatalf("usage error not printed: %q", errOut.String())
	}
}

func TestGetVersion(t *testing.T) {
	out, _ := captureOutput(t)
	VersionCmdStr = "tray 1.0-test (linux_amd64)"
	if err := GetVersion(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), VersionCmdStr) {
		t.Fatalf("unexpected output %q", out.String())
	}
}
