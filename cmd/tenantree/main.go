package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/HerbHall/tenantree/internal/apispec"
	"github.com/HerbHall/tenantree/internal/auvik"
	"github.com/HerbHall/tenantree/internal/config"
	"github.com/HerbHall/tenantree/internal/reach"
	"github.com/HerbHall/tenantree/internal/report"
	"github.com/HerbHall/tenantree/internal/snapshot"
	"github.com/HerbHall/tenantree/internal/version"
	"github.com/HerbHall/tenantree/pkg/models"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintf(os.Stderr, `tenantree - multi-tenant inventory retrieval

Usage:
  tenantree <command> [flags]

Commands:
  tenants      list visible tenants
  devices      retrieve the device inventory
  netdevices   retrieve the network-infrastructure device subset
  networks     retrieve the network inventory
  device       show one device by id
  paths        inspect the API specification
  version      print version information

Run 'tenantree <command> -h' for command flags.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "tenants":
		runTenants(args)
	case "devices":
		runDevices(args, false)
	case "netdevices":
		runDevices(args, true)
	case "networks":
		runNetworks(args)
	case "device":
		runDevice(args)
	case "paths":
		runPaths(args)
	case "version", "-version", "--version":
		fmt.Println(version.Info())
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

// app bundles what every command needs after setup.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
	client *auvik.Client
}

// setup loads configuration, builds the logger, and constructs the
// API client. Fatal on any failure; commands never start half-wired.
func setup(configPath string) *app {
	v, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if f := v.ConfigFileUsed(); f != "" {
		logger.Debug("configuration loaded", zap.String("source", f))
	}

	apiCfg := auvik.DefaultConfig()
	if err := v.UnmarshalKey("api", &apiCfg); err != nil {
		logger.Fatal("invalid api configuration", zap.Error(err))
	}

	client, err := auvik.NewClient(apiCfg, logger.Named("auvik"))
	if err != nil {
		logger.Fatal("failed to build API client", zap.Error(err))
	}
	if v.GetBool("progress.enabled") {
		client.SetProgress(auvik.NewLogProgress(logger.Named("progress")))
	}

	return &app{v: v, logger: logger, client: client}
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode output: %v\n", err)
		os.Exit(1)
	}
}

func runTenants(args []string) {
	fs := flag.NewFlagSet("tenants", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	_ = fs.Parse(args)

	a := setup(*configPath)
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	tenants, err := a.client.Tenants(ctx)
	if err != nil {
		a.logger.Fatal("tenant retrieval failed", zap.Error(err))
	}
	if *asJSON {
		printJSON(tenants)
		return
	}
	report.Tenants(os.Stdout, tenants)
}

func runDevices(args []string, netOnly bool) {
	name := "devices"
	if netOnly {
		name = "netdevices"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	tenantNames := fs.String("tenants", "", "comma-separated tenant names")
	tenantIDs := fs.String("ids", "", "comma-separated tenant ids (override -tenants)")
	filters := fs.String("filters", "", "filter spec, e.g. vendor=cisco,status=online")
	details := fs.Bool("details", false, "fetch per-device detail, warranty, and lifecycle records")
	raw := fs.Bool("raw", false, "emit raw API records without normalization")
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	_ = fs.Parse(args)

	a := setup(*configPath)
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	opts := auvik.DeviceOptions{
		Selection: auvik.Selection{
			Names: splitList(*tenantNames),
			IDs:   splitList(*tenantIDs),
		},
		Details: *details,
		Filters: *filters,
	}

	if *raw {
		items, err := a.client.RawDevices(ctx, opts)
		if err != nil {
			a.logger.Fatal("device retrieval failed", zap.Error(err))
		}
		printJSON(items)
		return
	}

	var (
		devices []*models.Device
		err     error
	)
	if netOnly {
		devices, err = a.client.NetDevices(ctx, opts)
	} else {
		devices, err = a.client.Devices(ctx, opts)
	}
	if err != nil {
		a.logger.Fatal("device retrieval failed", zap.Error(err))
	}

	if a.v.GetBool("reach.enabled") {
		probeDevices(ctx, a, devices)
	}
	saveSnapshot(ctx, a, devices, nil)

	if *asJSON {
		printJSON(devices)
		return
	}
	report.Devices(os.Stdout, devices)
}

func runNetworks(args []string) {
	fs := flag.NewFlagSet("networks", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	tenantNames := fs.String("tenants", "", "comma-separated tenant names")
	tenantIDs := fs.String("ids", "", "comma-separated tenant ids (override -tenants)")
	filters := fs.String("filters", "", "filter spec, e.g. network_type=vlan")
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	_ = fs.Parse(args)

	a := setup(*configPath)
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	networks, err := a.client.Networks(ctx, auvik.NetworkOptions{
		Selection: auvik.Selection{
			Names: splitList(*tenantNames),
			IDs:   splitList(*tenantIDs),
		},
		Filters: *filters,
	})
	if err != nil {
		a.logger.Fatal("network retrieval failed", zap.Error(err))
	}

	saveSnapshot(ctx, a, nil, networks)

	if *asJSON {
		printJSON(networks)
		return
	}
	report.Networks(os.Stdout, networks)
}

func runDevice(args []string) {
	fs := flag.NewFlagSet("device", flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	detail := fs.Bool("detail", false, "include the detail sub-resource")
	fields := fs.String("fields", "", "comma-separated detail fields to request")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tenantree device [flags] <device-id>")
		os.Exit(2)
	}

	a := setup(*configPath)
	defer a.close()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := a.client.DeviceInfo(ctx, fs.Arg(0), *detail, splitList(*fields))
	if err != nil {
		a.logger.Fatal("device lookup failed", zap.Error(err))
	}
	printJSON(res)
}

func runPaths(args []string) {
	fs := flag.NewFlagSet("paths", flag.ExitOnError)
	specFile := fs.String("spec", "apispec.json", "path to the API specification file")
	tag := fs.String("tag", "", "restrict to paths carrying this tag")
	params := fs.String("params", "", "print the parameters of this path instead")
	_ = fs.Parse(args)

	spec, err := apispec.Load(*specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load specification: %v\n", err)
		os.Exit(1)
	}

	if *params != "" {
		ps, err := spec.Params(*params)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, p := range ps {
			req := ""
			if p.Required {
				req = " (required)"
			}
			fmt.Printf("%s\t%s%s\n", p.Name, p.In, req)
		}
		return
	}

	paths := spec.Paths()
	if *tag != "" {
		if paths, err = spec.PathsByTag(*tag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}

// probeDevices pings every resolved device IP and logs the unreachable
// ones. Observational only; failures never abort the run.
func probeDevices(ctx context.Context, a *app, devices []*models.Device) {
	var cfg reach.Config
	if err := a.v.UnmarshalKey("reach", &cfg); err != nil {
		a.logger.Warn("invalid reach configuration, skipping probe", zap.Error(err))
		return
	}
	prober := reach.NewProber(cfg, a.logger.Named("reach"))
	results := prober.Probe(ctx, devices)
	for id, r := range results {
		if !r.Alive {
			a.logger.Warn("device unreachable",
				zap.String("device_id", id),
				zap.String("ip", r.IP),
			)
		}
	}
}

// saveSnapshot persists the run to SQLite when snapshot.path is set.
func saveSnapshot(ctx context.Context, a *app, devices []*models.Device, networks []*models.Network) {
	path := a.v.GetString("snapshot.path")
	if path == "" {
		return
	}
	store, err := snapshot.Open(path)
	if err != nil {
		a.logger.Error("snapshot store unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	runID := a.client.RunID()
	if err := store.BeginRun(ctx, runID); err != nil {
		a.logger.Error("snapshot run failed", zap.Error(err))
		return
	}
	if devices != nil {
		if err := store.SaveDevices(ctx, runID, devices); err != nil {
			a.logger.Error("snapshot devices failed", zap.Error(err))
		}
	}
	if networks != nil {
		if err := store.SaveNetworks(ctx, runID, networks); err != nil {
			a.logger.Error("snapshot networks failed", zap.Error(err))
		}
	}
	a.logger.Info("snapshot written", zap.String("path", path), zap.String("run_id", runID))
}
