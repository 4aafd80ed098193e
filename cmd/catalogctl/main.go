// catalogctl: tareas de administración fuera del API (migraciones, sesión del panel, snapshots locales).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Administración del catálogo y del almacén local",
		SilenceUsage:  true,
	}
	root.AddCommand(
		MigrateCommand(),
		LoginCommand(),
		LogoutCommand(),
		WhoamiCommand(),
		StatusCommand(),
		SnapshotCommand(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
