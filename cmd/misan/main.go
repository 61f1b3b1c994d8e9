// Command misan is a small CLI exercising the misanthropy client.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cortesi/misanthropy"
	"github.com/cortesi/misanthropy/internal/config"
	"github.com/cortesi/misanthropy/internal/session"
)

// version is the CLI build version.
const version = "0.1.0"

// rootOptions holds flags shared by all subcommands.
type rootOptions struct {
	// APIKey overrides config-file and environment credentials.
	APIKey string
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// Verbose raises the stderr log level; repeatable.
	Verbose int
	// Quiet silences everything except errors.
	Quiet bool
}

// infof writes an informational line to stderr at -v and above.
func (o *rootOptions) infof(format string, args ...any) {
	if o.Quiet || o.Verbose < 1 {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// debugf writes a debug line to stderr at -vv and above.
func (o *rootOptions) debugf(format string, args ...any) {
	if o.Quiet || o.Verbose < 2 {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// warnf writes a warning line to stderr unless quiet.
func (o *rootOptions) warnf(format string, args ...any) {
	if o.Quiet {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// main wires Cobra and executes the CLI.
func main() {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "misan",
		Short:         "Send messages to the Anthropic API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.APIKey, "api-key", "", "API key (falls back to config file, then "+misanthropy.APIKeyEnv+")")
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to the config file")
	flags.CountVarP(&opts.Verbose, "verbose", "v", "Verbose output (-v, -vv)")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "Silence all non-error output")

	rootCmd.AddCommand(infoCommand(opts))
	rootCmd.AddCommand(messageCommand(opts))
	rootCmd.AddCommand(sessionsCommand(opts))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildClient resolves the credential and CLI defaults into a client.
// Precedence for the key: --api-key, then the config file, then the
// environment variable.
func buildClient(opts *rootOptions, cfg *config.Config) (*misanthropy.Client, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	client, err := misanthropy.WithStringOrEnv(apiKey)
	if err != nil {
		return nil, err
	}
	if cfg.DefaultModel != "" {
		client.WithModel(cfg.ResolveModel(""))
	}
	if cfg.DefaultMaxTokens > 0 {
		client.WithMaxTokens(cfg.DefaultMaxTokens)
	}
	return client, nil
}

// infoCommand prints the resolved client configuration.
func infoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the resolved client configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			client, err := buildClient(opts, cfg)
			if err != nil {
				return err
			}

			keySource := "environment"
			switch {
			case opts.APIKey != "":
				keySource = "flag"
			case cfg.APIKey != "":
				keySource = "config file"
			}

			fmt.Printf("model:      %s\n", client.Model())
			fmt.Printf("max tokens: %d\n", client.MaxTokens())
			fmt.Printf("base url:   %s\n", client.BaseURL())
			fmt.Printf("api key:    set (%s)\n", keySource)
			return nil
		},
	}
}

// sessionsCommand lists recent transcript ids.
func sessionsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recent message transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewStore()
			if err != nil {
				return err
			}
			ids, err := store.ListSessions(20)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				opts.infof("no saved sessions")
				return nil
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}
