package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"llnode/internal/driver"
	"llnode/internal/irtext"
	"llnode/internal/layout"
	"llnode/internal/types"
)

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <module.toml> <type>...",
		Short: "Print size, alignment and field offsets of types",
		Long:  `Types use LLVM syntax and may name the module's structs, e.g. "%node" or "[4 x { i8, i32 }]"`,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := loadSettings(cmd, path)
			if err != nil {
				return err
			}
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			defer stopProfiling()

			loaded, err := driver.LoadModule(cmd.Context(), path, s.cache, nil)
			if err != nil {
				return err
			}
			m := loaded.Module

			dl := m.DataLayout
			if dl == "" {
				dl = s.dataLayout
			}
			target, err := layout.ParseDataLayout(dl)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			engine := layout.New(target, m.Types)

			ids := make([]types.TypeID, 0, len(args)-1)
			for _, text := range args[1:] {
				id, err := irtext.ParseType(m.Types, text)
				if err != nil {
					return fmt.Errorf("type %q: %w", text, err)
				}
				ids = append(ids, id)
			}
			fmt.Fprint(cmd.OutOrStdout(), layout.FormatTable(engine.Rows(args[1:], ids)))
			return nil
		},
	}
}
