package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	healthCtrlImp "shiptrack/pkg/health/controllerImp"
	projectCtrlImp "shiptrack/pkg/project/controllerImp"
	svc "shiptrack/pkg/project/service"
	"shiptrack/router"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			e := echo.New()
			e.HideBanner = true
			router.New(e, router.Options{
				DefaultActor: a.cfg.DefaultActor,
				BodyLimit:    a.cfg.BodyLimit(),
				StaticDir:    a.cfg.StaticDir,
				Log:          a.log.Named("http"),
			},
				projectCtrlImp.New(a.svc, a.log.Named("http")),
				healthCtrlImp.NewHealthCtrl(a.db, a.repo),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				shut, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = e.Shutdown(shut)
			}()

			a.log.Info("listening", zap.String("port", a.cfg.Port), zap.String("db", a.cfg.DBPath))
			if err := e.Start(":" + a.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newImportProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-projects <file>",
		Short: "Create projects from a CSV/XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			tally, err := a.svc.CreateFromFile(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", tally.Created, tally.Skipped)
			return nil
		},
	}
}

func newImportLogisticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-logistics <file>",
		Short: "Apply a logistics export to projects by PI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			synced, err := a.svc.ImportLogistics(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "import ok, latest sync %s\n", synced)
			return nil
		},
	}
}

func newPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paste",
		Short: "Create projects from tab or comma separated lines on stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			text, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			tally, err := a.svc.CreateFromPaste(cmd.Context(), string(text))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", tally.Created, tally.Skipped)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		f      svc.Filter
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Print the status view",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			view, err := a.svc.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			return printView(out, view)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.SI, "si", "", "SI contains")
	fl.StringVar(&f.EU, "eu", "", "EU contains")
	fl.StringVar(&f.DGWPIC, "dgw-pic", "", "DGW PIC contains")
	fl.StringVar(&f.AsusPIC, "asus-pic", "", "ASUS PIC contains")
	fl.StringVar(&f.SKUCode, "sku", "", "SKU contains")
	fl.StringVar(&f.PartNumber, "partnumber", "", "part number contains")
	fl.StringVar(&f.PI, "pi", "", "PI contains")
	fl.StringVar(&f.Lot, "lot", "", "lot number contains")
	fl.StringVar(&f.Bill, "bill", "", "bill contains")
	fl.StringVar(&f.Declaration, "declaration", "", "declaration number contains")
	fl.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printView(w io.Writer, v *svc.View) error {
	sync := "-"
	if v.LatestSync != nil {
		sync = *v.LatestSync
	}
	fmt.Fprintf(w, "Latest logistics sync: %s\n", sync)

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSKU\tQTY\tSI\tEU\tPI\tBILL\tLOT\tDECL\tARRIVAL\tIN WH\tCREATED")
	for _, p := range v.Projects {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ProjectID, p.SKUCode, p.Qty, p.SI, p.EU,
			opt(p.PINo), opt(p.BillNo), opt(p.LotNo), opt(p.DeclarationNo),
			opt(p.S4ArrivalPortDate), opt(p.S4InWarehouseDate),
			p.RowCreatedAt.Format("02/01/2006 15:04"))
	}
	return tw.Flush()
}

func opt(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
