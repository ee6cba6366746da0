package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eleven-am/cerberus"
)

// Colored output for audit verdicts and rule attributes.
var (
	info    = color.New(color.FgBlue).PrintfFunc()
	success = color.New(color.FgGreen).PrintfFunc()
	failure = color.New(color.FgRed).PrintfFunc()
)

var rootCmd = &cobra.Command{
	Use:   "cerberus",
	Short: "GCP firewall rule compliance evaluator",
	Long: `Cerberus answers compliance questions over exported GCP firewall rules:
does a rule permit SSH ingress, does it restrict source tags to exactly
a given set, does it open only the expected IP ranges.

Rules are read from documents exported with
  gcloud compute firewall-rules describe <name> --format=json
laid out as <data-dir>/<project>/<name>.json (or .yaml). Cerberus never
talks to the Compute API and never modifies a rule.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	viper.SetConfigName("cerberus")
	viper.AddConfigPath("/etc/cerberus/")
	viper.AddConfigPath("$HOME/.cerberus/")
	viper.AddConfigPath(".")

	rootCmd.PersistentFlags().StringP("data", "d", "", "directory of exported firewall documents")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(showCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config file: %w", err)
		}
	}

	switch format := viper.GetString("log.format"); format {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logrus.SetLevel(level)
	return nil
}

// newSource builds the document source every command loads rules through.
func newSource() (cerberus.Source, error) {
	dir := viper.GetString("data")
	if dir == "" {
		return nil, fmt.Errorf("no data directory configured, pass --data or set it in the config file")
	}
	return cerberus.NewCachedSource(cerberus.NewFileSource(dir), 5*time.Minute, 0), nil
}
