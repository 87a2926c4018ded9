package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	containers "github.com/goliatone/go-cms-containers"
	"github.com/goliatone/go-cms-containers/internal/localization"
	"github.com/spf13/cobra"
)

func newRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <payload.json|->",
		Short: "Rebuild a host localization summary",
		Long: `Reads a localization summary produced by the host, applies the container
adjustments against the configured content table and prints the result.`,
		Example: `  containers-l10n rebuild summary.json
  curl -s "$SUMMARY_URL" | containers-l10n rebuild -`,
		Args: cobra.ExactArgs(1),
		RunE: runRebuild,
	}
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	body, err := readPayload(cmd, args[0])
	if err != nil {
		return err
	}
	payload, err := localization.DecodePayload(body)
	if err != nil {
		return err
	}

	module, err := containers.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	rebuilt, err := module.Rebuilder().Rebuild(cmd.Context(), payload)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), rebuilt)
}

func readPayload(cmd *cobra.Command, source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return body, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
