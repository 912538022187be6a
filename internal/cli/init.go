package cli

import (
	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the store (safe to run again)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Init(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			info, err := s.ReadSelectionInfo(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"dir":   s.Dir,
				"ready": info.Validate() == nil,
			})
		},
	}
	return cmd
}
