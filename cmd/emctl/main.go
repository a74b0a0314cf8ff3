// Command emctl runs administrative tasks against the Employee Manager store:
// client imports from spreadsheets, fixture seeding and super admin creation.
//
// It reads the same environment as the server. Flags may also be set through
// EM_-prefixed variables, e.g. EM_JSON=true.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/empresatop10/employee-manager/internal/app"
	"github.com/empresatop10/employee-manager/internal/importer"
	"github.com/empresatop10/employee-manager/internal/infrastructure/config"
	"github.com/empresatop10/employee-manager/internal/seed"
	"github.com/empresatop10/employee-manager/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "emctl",
	Short:         "Employee Manager admin CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.AddCommand(importClientsCmd(), seedCmd(), createSuperuserCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("EM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log at debug level")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// withApp loads the configuration, builds the service graph and hands it to fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if viper.GetBool("verbose") {
		level = "debug"
	}
	log := logger.Init(logger.Options{Level: level, Pretty: true, Output: os.Stderr, Service: "emctl"})

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if cfg.StoreDriver == config.DriverMemory {
		log.Warn().Msg("the memory store is discarded when emctl exits")
	}
	return fn(a)
}

func importClientsCmd() *cobra.Command {
	var headerRows int
	cmd := &cobra.Command{
		Use:   "import-clients <file.xlsx>",
		Short: "Import clients from every sheet but the first of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wb, err := importer.OpenWorkbook(args[0])
			if err != nil {
				return err
			}
			defer wb.Close()

			return withApp(cmd.Context(), func(a *app.App) error {
				sum, err := importer.ImportClients(cmd.Context(), wb, a.Repos.Clients, importer.Options{
					HeaderRows: headerRows,
					Log:        logger.For("importer"),
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(sum)
				}
				printImportSummary(sum)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&headerRows, "header-rows", importer.DefaultHeaderRows, "rows to skip at the top of each sheet")
	return cmd
}

func printImportSummary(sum importer.Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Sheets", "Rows", "Created", "Existing", "Blank", "Issues"})
	tw.AppendRow(table.Row{sum.Sheets, sum.Rows, sum.Created, sum.Existing, sum.Blank, len(sum.Issues)})
	tw.Render()

	if len(sum.Issues) == 0 {
		return
	}
	iw := table.NewWriter()
	iw.SetOutputMirror(os.Stdout)
	iw.AppendHeader(table.Row{"Sheet", "Row", "Name", "Email", "Reason"})
	for _, is := range sum.Issues {
		iw.AppendRow(table.Row{is.Sheet, is.Row, is.Name, is.Email, is.Reason})
	}
	iw.Render()
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Get-or-create departments, jobs, groups, clients and a super admin from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture := seed.Default()
			if file != "" {
				f, err := seed.FromFile(file)
				if err != nil {
					return err
				}
				fixture = f
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				res, err := seed.Apply(cmd.Context(), a.Repos, a.Accounts, fixture, logger.For("seed"))
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(res)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"Kind", "Name", "Created"})
				for _, e := range res.Entries {
					tw.AppendRow(table.Row{e.Kind, e.Name, e.Created})
				}
				tw.AppendFooter(table.Row{"", "created", res.Created()})
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a YAML fixture (built-in fixture when empty)")
	return cmd
}

func createSuperuserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-superuser",
		Short: "Create a super admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email := viper.GetString("email")
			password := viper.GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password (or EM_EMAIL and EM_PASSWORD) are required")
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				e, err := a.Accounts.CreateSuperuser(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(map[string]string{"id": e.ID, "email": e.Email})
				}
				fmt.Printf("super admin %s created (%s)\n", e.Email, e.ID)
				return nil
			})
		},
	}
	cmd.Flags().String("email", "", "e-mail of the new super admin")
	cmd.Flags().String("password", "", "password of the new super admin")
	_ = viper.BindPFlag("email", cmd.Flags().Lookup("email"))
	_ = viper.BindPFlag("password", cmd.Flags().Lookup("password"))
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
