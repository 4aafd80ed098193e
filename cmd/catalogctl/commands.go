package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/bootstrap"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const commandTimeout = 2 * time.Minute

// withContainer carga configuración y dependencias, ejecuta fn y libera todo.
func withContainer(fn func(ctx context.Context, c *bootstrap.Container) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, File: cfg.Log.File})

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	c, err := bootstrap.New(ctx, cfg, log, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// MigrateCommand aplica el esquema embebido en el almacén remoto.
func MigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes en el almacén remoto",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Ping(ctx, pool, cfg.Cache.RemoteTimeout); err != nil {
				return fmt.Errorf("almacén remoto inalcanzable: %w", err)
			}

			applied, err := postgres.Migrate(ctx, pool, log.Component("migrate"))
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "esquema al día")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "aplicada:", name)
			}
			return nil
		},
	}
}

// LoginCommand valida credenciales y guarda la sesión del panel en el almacén local.
func LoginCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión de administrador y la guarda en el almacén local (24 h)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readLine(cmd.InOrStdin(), cmd.OutOrStdout(), "Contraseña: ")
				if err != nil {
					return err
				}
				password = p
			}
			return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
				if err := c.RefetchAdminUsers(ctx); err != nil {
					return err
				}
				resp, err := c.AuthUC.Login(ctx, dto.LoginRequest{Username: username, Password: password})
				if err != nil {
					return err
				}
				if err := c.SessionGate.Store(ctx, *resp); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sesión iniciada como %s (%s)\n", resp.User.Username, resp.User.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "Usuario o email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Contraseña (si se omite se lee de stdin)")
	return cmd
}

// LogoutCommand elimina la sesión guardada.
func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión guardada",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
				if err := c.SessionGate.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "sesión cerrada")
				return nil
			})
		},
	}
}

// WhoamiCommand muestra la sesión vigente, si la hay.
func WhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Muestra el usuario de la sesión guardada",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
				sess, err := c.SessionGate.Current(ctx)
				if err != nil {
					return err
				}
				if sess == nil {
					return errors.New("sin sesión vigente: ejecute catalogctl login")
				}
				started := time.UnixMilli(sess.Timestamp)
				fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> rol=%s desde %s\n",
					sess.User.Username, sess.User.Email, sess.User.Role, started.Format(time.RFC3339))
				return nil
			})
		},
	}
}

// StatusCommand conectividad del remoto y estado de cada colección tras una recarga.
func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Recarga las colecciones y muestra el estado del almacén remoto",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
				if err := c.Refetch(ctx); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c.StatusUC.Status(ctx))
			})
		},
	}
}

// SnapshotCommand inspección del almacén local.
func SnapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspecciona el almacén local",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "Lista las claves guardadas",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
				keys, err := c.Local.Keys(ctx)
				if err != nil {
					return err
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Imprime el snapshot de una clave",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *bootstrap.Container) error {
				raw, ok, err := c.Local.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("clave %q no encontrada", args[0])
				}
				var v interface{}
				if err := json.Unmarshal(raw, &v); err != nil {
					// no es JSON: se imprime tal cual
					_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
					return err
				}
				return printJSON(cmd.OutOrStdout(), v)
			})
		},
	})
	return cmd
}

func readLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

