package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"archview/pkg/model"
	"archview/pkg/store"
)

// newSnapshotsCmd creates the snapshots command group for managing the
// local snapshot catalog.
func newSnapshotsCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Manage the local snapshot catalog",
	}
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ~/.config/archview/config.toml)")

	openCatalog := func() (*store.FileStore, error) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			return nil, err
		}
		return store.NewFileStore(cfg.SnapshotDir)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := openCatalog()
			if err != nil {
				return err
			}
			names, err := catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No snapshots stored")
				printDetail("Directory: %s", catalog.Dir())
				return nil
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <snapshot.json>",
		Short: "Add a snapshot file to the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := openCatalog()
			if err != nil {
				return err
			}
			snap, err := model.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("load snapshot %s: %w", args[1], err)
			}
			if err := catalog.Save(cmd.Context(), args[0], snap); err != nil {
				return err
			}
			printSuccess("Stored snapshot %s", args[0])
			printDetail("Components: %d", snap.ComponentCount())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a snapshot from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := openCatalog()
			if err != nil {
				return err
			}
			if err := catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Removed snapshot %s", args[0])
			return nil
		},
	})

	return cmd
}
