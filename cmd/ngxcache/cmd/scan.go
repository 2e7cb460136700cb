package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ngx-tools/ngxcache/pkg/cachefile"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "List all entries in a cache directory tree",
	Long: `Walk an nginx cache directory and print one line per cache entry:
file path, cache key and expiry. Files that fail to decode are reported
and skipped.

Example:
  ngxcache scan /var/cache/nginx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tKEY\tEXPIRES")

		err := cachefile.Scan(args[0], func(path string, info *cachefile.Info, err error) error {
			if err != nil {
				logrus.WithError(err).Warnf("skipping %s", path)
				return nil
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", path, info.Key, formatTime(info.Header.ValidSec))
			return nil
		})
		if err != nil {
			return err
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
