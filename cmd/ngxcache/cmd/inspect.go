package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ngx-tools/ngxcache/pkg/cachefile"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Decode and print nginx cache files",
	Long: `Decode one or more nginx cache files and print the header fields,
the cache key, the HTTP response headers and the body length.

Example:
  ngxcache inspect /var/cache/nginx/a/1f/b7f6a3e52ca9b7d2e91f5c81d2e3a1f1`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")
		format, _ := cmd.Flags().GetString("format")

		failures := 0
		for _, path := range args {
			info, err := cachefile.Parse(path)
			if err != nil {
				logrus.WithError(err).Errorf("cannot inspect %s", path)
				failures++
				continue
			}
			if quiet {
				continue
			}
			if err := printInfo(cmd.OutOrStdout(), info, format); err != nil {
				logrus.WithError(err).Error("cannot write output")
				failures++
			}
		}
		if failures > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("format", "table", "Output format (table or json)")
}
