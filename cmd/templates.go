package cmd

const DESCRIPTION = `Keeps the Antigravity Claude Proxy dashboard in the system tray.
   Closing the window hides it; use the tray menu to quit.
   Launching the app again focuses the running instance.`

const HELP_TEMPL = `NAME:
   {{.Name}}{{if .Usage}} - {{.Usage}}{{end}}

USAGE:
   {{.UsageText}}

DESCRIPTION:
   {{.Description}}

COMMANDS:{{range .VisibleCommands}}
   {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{if .VisibleFlags}}

GLOBAL OPTIONS:{{range .VisibleFlags}}
   {{.}}{{end}}{{end}}
`

const CMD_HELP_TEMPL = `NAME:
   {{.HelpName}} - {{.Usage}}

USAGE:
   {{.HelpName}}{{if .UsageText}} {{.UsageText}}{{end}}{{if .VisibleFlags}}

OPTIONS:{{range .VisibleFlags}}
   {{.}}{{end}}{{end}}
`
