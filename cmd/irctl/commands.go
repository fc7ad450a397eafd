package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"github.com/urmzd/irhome/pkg/app"
	"github.com/urmzd/irhome/pkg/config"
	"github.com/urmzd/irhome/pkg/control"
	"github.com/urmzd/irhome/pkg/db"
	"github.com/urmzd/irhome/pkg/device"
	"gopkg.in/yaml.v3"
)

func cmd() *cli.Command {
	return &cli.Command{
		Name:    "irctl",
		Usage:   "Manage and drive infrared appliances",
		Version: version,
		Flags:   config.Flags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, config.SetupLogging(cmd.Root().ErrWriter, cmd.String("log-level"))
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List stored devices",
				Action: withApp(list),
			},
			{
				Name:      "show",
				Usage:     "Show the controls and state of a device",
				ArgsUsage: "<id>",
				Action:    withApp(show),
			},
			{
				Name:      "exec",
				Usage:     "Send a command, e.g. irctl exec tv volume.up",
				ArgsUsage: "<id> <control.op>",
				Action:    withApp(execute),
			},
			{
				Name:      "learn",
				Usage:     "Capture a new control from the physical remote",
				ArgsUsage: "<id> <name> <kind>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "min", Usage: "Lowest level"},
					&cli.IntFlag{Name: "max", Usage: "Highest level"},
					&cli.StringSliceFlag{Name: "label", Usage: "List item, repeat in order"},
				},
				Action: withApp(learn),
			},
			{
				Name:      "delete",
				Usage:     "Delete a device",
				ArgsUsage: "<id>",
				Action:    withApp(remove),
			},
			{
				Name:      "import",
				Usage:     "Create or replace a device from a YAML definition",
				ArgsUsage: "<file.yaml>",
				Action:    withApp(importDevice),
			},
			{
				Name:      "export",
				Usage:     "Print the YAML definition of a device",
				ArgsUsage: "<id>",
				Action:    withApp(export),
			},
			{
				Name:   "profiles",
				Usage:  "List device profiles and control kinds",
				Action: withApp(profiles),
			},
			{
				Name:   "site",
				Usage:  "Show the active site and its API listen address",
				Action: withApp(site),
				Commands: []*cli.Command{
					{
						Name:      "bind",
						Usage:     "Store the API listen address of the active site",
						ArgsUsage: "<host:port>",
						Action:    withApp(bindSite),
					},
				},
			},
		},
	}
}

type appAction func(ctx context.Context, cmd *cli.Command, a *app.App) error

func withApp(fn appAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		cfg := config.Load(cmd)
		a, err := app.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, a.Close()) }()
		return fn(ctx, cmd, a)
	}
}

func args(cmd *cli.Command, names ...string) ([]string, error) {
	if cmd.NArg() != len(names) {
		return nil, fmt.Errorf("usage: %s %s", cmd.FullName(), cmd.ArgsUsage)
	}
	return cmd.Args().Slice(), nil
}

func out(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func list(ctx context.Context, cmd *cli.Command, a *app.App) error {
	ids, err := a.Controller.ListDevices(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPROFILE\tCONTROLS")
	for _, id := range ids {
		d, err := a.Controller.GetDevice(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", d.ID(), d.Profile(), len(d.Controls()))
	}
	return tw.Flush()
}

func show(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "id")
	if err != nil {
		return err
	}
	d, err := a.Controller.GetDevice(ctx, argv[0])
	if err != nil {
		return err
	}

	w := out(cmd)
	fmt.Fprintf(w, "%s (%s)\n", d.ID(), d.Profile())
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTROL\tKIND\tSTATE\tCOMMANDS")
	for _, c := range d.Controls() {
		fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", c.Name(), c.Kind(), formatState(c), strings.Join(c.Operations(), ","))
	}
	return tw.Flush()
}

func formatState(c control.Control) string {
	if c.State() == nil {
		return "-"
	}
	d := c.Domain()
	if d.Type == control.DomainRange {
		return fmt.Sprintf("%v [%d..%d]", c.State(), d.Min, d.Max)
	}
	return fmt.Sprint(c.State())
}

func execute(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "id", "control.op")
	if err != nil {
		return err
	}
	name, _, err := device.ParseCommandID(argv[1])
	if err != nil {
		return err
	}
	d, err := a.Controller.ExecuteCommand(ctx, argv[0], argv[1])
	if err != nil {
		return err
	}
	c, _ := d.Control(name)
	fmt.Fprintf(out(cmd), "%s %s: %s\n", d.ID(), c.Name(), formatState(c))
	return nil
}

func learn(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "id", "name", "kind")
	if err != nil {
		return err
	}
	spec := control.Spec{
		Name:   argv[1],
		Kind:   control.Kind(argv[2]),
		Min:    cmd.Int("min"),
		Max:    cmd.Int("max"),
		Labels: cmd.StringSlice("label"),
	}
	if !spec.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", control.ErrInvalidSpec, spec.Kind)
	}

	ops := control.RequiredCommands(spec.Kind)
	if spec.Kind == control.KindToggle {
		ops = []string{control.OpToggle}
	}
	fmt.Fprintf(out(cmd), "Press, in order: %s\n", strings.Join(ops, ", "))

	d, err := a.Controller.LearnControl(ctx, argv[0], spec)
	if err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Learned %s on %s\n", spec.Name, d.ID())
	return nil
}

func remove(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "id")
	if err != nil {
		return err
	}
	return a.Controller.DeleteDevice(ctx, argv[0])
}

func importDevice(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "file")
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(argv[0])
	if err != nil {
		return err
	}

	var def device.Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return fmt.Errorf("%w: %s: %w", device.ErrValidation, argv[0], err)
	}
	d, err := def.Build()
	if err != nil {
		return err
	}

	record, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := a.Validator.ValidateDevice(record); err != nil {
		return fmt.Errorf("%w: %s: %w", device.ErrValidation, argv[0], err)
	}

	if err := a.Controller.PutDevice(ctx, d.ID(), d); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Imported %s (%s) with %d commands\n", d.ID(), d.Profile(), len(d.CommandIDs()))
	return nil
}

func export(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "id")
	if err != nil {
		return err
	}
	d, err := a.Controller.GetDevice(ctx, argv[0])
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(out(cmd))
	enc.SetIndent(2)
	if err := enc.Encode(device.DefinitionOf(d)); err != nil {
		return err
	}
	return enc.Close()
}

func profiles(ctx context.Context, cmd *cli.Command, a *app.App) error {
	counts, err := countByProfile(ctx, cmd, a)
	if err != nil {
		return err
	}

	w := out(cmd)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tDEVICES\tCONTROLS")
	for _, p := range device.Profiles() {
		roles := make([]string, len(p.Roles))
		for i, r := range p.Roles {
			roles[i] = r.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Name, counts[p.Name], strings.Join(roles, ","))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, k := range control.Kinds() {
		fmt.Fprintf(w, "%-14s %s\n", k, control.Describe(k))
	}
	return nil
}

// countByProfile lets SQLite group devices when it holds them and loads
// every device otherwise.
func countByProfile(ctx context.Context, cmd *cli.Command, a *app.App) (map[string]int, error) {
	backend := cmd.String("store")
	if backend == config.BackendSQLite || backend == "" {
		return a.DB.Devices(a.Settings.SiteID()).CountByProfile(ctx)
	}

	ids, err := a.Controller.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, id := range ids {
		d, err := a.Controller.GetDevice(ctx, id)
		if err != nil {
			return nil, err
		}
		counts[d.Profile()]++
	}
	return counts, nil
}

func site(ctx context.Context, cmd *cli.Command, a *app.App) error {
	sites, err := a.DB.Sites().List(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SITE\tTIMEZONE\tLISTEN\tACTIVE")
	for _, s := range sites {
		listen := db.DefaultListen
		if l, err := a.DB.Listeners().Get(ctx, s.ID); err == nil {
			listen = l.Address()
		} else if !errors.Is(err, db.ErrListenerNotFound) {
			return err
		}
		active := ""
		if s.IsActive {
			active = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Name, s.Timezone, listen, active)
	}
	return tw.Flush()
}

func bindSite(ctx context.Context, cmd *cli.Command, a *app.App) error {
	argv, err := args(cmd, "host:port")
	if err != nil {
		return err
	}
	l, err := db.ParseListener(a.Settings.SiteID(), argv[0])
	if err != nil {
		return err
	}
	if err := a.DB.Listeners().Set(ctx, l); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "%s listens on %s\n", a.Settings.Site.Name, l.Address())
	return nil
}
