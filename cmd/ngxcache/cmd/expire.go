package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ngx-tools/ngxcache/pkg/cachefile"
)

// expireCmd represents the expire command
var expireCmd = &cobra.Command{
	Use:   "expire --set-expire <date> <file>...",
	Short: "Rewrite the expiry timestamp of cache files",
	Long: `Rewrite the expiry timestamp (valid_sec) of one or more nginx cache
files in place. The date is interpreted in local time and accepts
"2006-01-02T15:04:05", "2006-01-02 15:04:05" or "2006-01-02".

Only the 8-byte expiry field is touched; the rest of the file is left
exactly as it was.

Example:
  ngxcache expire --set-expire "2020-01-01" /var/cache/nginx/a/1f/b7f6...`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")
		format, _ := cmd.Flags().GetString("format")
		dateStr, _ := cmd.Flags().GetString("set-expire")

		expire, err := cachefile.ParseExpiry(dateStr)
		if err != nil {
			logrus.Error(err)
			os.Exit(1)
		}

		failures := 0
		for _, path := range args {
			if err := cachefile.SetExpiry(path, expire); err != nil {
				logrus.WithError(err).Errorf("cannot expire %s", path)
				failures++
				continue
			}
			if quiet {
				continue
			}
			// Show the entry as it now stands on disk.
			info, err := cachefile.Parse(path)
			if err != nil {
				logrus.WithError(err).Warnf("patched %s but cannot decode it", path)
				continue
			}
			if err := printInfo(cmd.OutOrStdout(), info, format); err != nil {
				logrus.WithError(err).Error("cannot write output")
			}
		}
		if failures > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(expireCmd)

	expireCmd.Flags().String("set-expire", "", "New expiry date for valid_sec")
	expireCmd.Flags().String("format", "table", "Output format (table or json)")
	_ = expireCmd.MarkFlagRequired("set-expire")
}
