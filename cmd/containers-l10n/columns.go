package main

import (
	"fmt"

	"github.com/goliatone/go-cms-containers/internal/registry"
	"github.com/goliatone/go-cms-containers/pkg/interfaces"
	"github.com/spf13/cobra"
)

func newColumnsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the container columns from the configuration",
		Example: `  containers-l10n columns --config containers.yaml
  containers-l10n columns --config containers.yaml --ctype b13-2cols`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := registry.NewFromConfig(cfg.Containers)
			if err != nil {
				return err
			}

			ctype, _ := cmd.Flags().GetString("ctype")
			if ctype == "" {
				return writeJSON(cmd.OutOrStdout(), reg.GetAllAvailableColumnDefinitions())
			}
			def, ok := reg.Get(ctype)
			if !ok {
				return fmt.Errorf("container type %q is not registered", ctype)
			}
			defined := def.Columns()
			columns := make([]interfaces.ContainerColumn, 0, len(defined))
			for _, column := range defined {
				columns = append(columns, interfaces.ContainerColumn{
					ColumnPosition: column.ColumnPosition,
					Label:          column.Name,
				})
			}
			return writeJSON(cmd.OutOrStdout(), columns)
		},
	}
	cmd.Flags().String("ctype", "", "only list the columns of this container type")
	return cmd
}
