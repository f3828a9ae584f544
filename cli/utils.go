package cli

import (
	"github.com/fatih/color"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

func logJSONCmd(cmd cobra.Command, iface any) {
	p, err := prettyjson.Marshal(iface)
	if err != nil {
		logErrorCmd(cmd, err)

		return
	}

	cmd.Println(string(p))
}

func logErrorCmd(cmd cobra.Command, err error) {
	boldRed := color.New(color.FgRed, color.Bold)
	boldRed.Fprintf(cmd.ErrOrStderr(), "\nerror: ")

	cmd.PrintErrf("%s\n\n", color.RedString(err.Error()))
}

func logSuccessCmd(cmd cobra.Command, msg string) {
	cmd.Println(color.GreenString(msg))
}

func logUsageCmd(cmd cobra.Command, u string) {
	cmd.Println(color.YellowString("\nusage: %s\n", u))
}
