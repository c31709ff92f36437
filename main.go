package main

import (
	"embed"
	"io/fs"
	"os"

	"github.com/lugvitc/antigravity-tray/cmd"
)

//go:embed all:frontend/dist
var assets embed.FS

//go:embed build/appicon.png
var icon []byte

var (
	version   = "dev"
	buildType = "debug"
	date      string
	commit    string
)

func main() {
	dist, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
	err = cmd.Execute(os.Args, dist, cmd.BuildArgs{
		Version:   version,
		BuildType: buildType,
		Date:      date,
		Commit:    commit,
		Icon:      icon,
	})
	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
}
