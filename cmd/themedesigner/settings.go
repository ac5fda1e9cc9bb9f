package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artpar/themedesigner/domain/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage global settings",
	Long: `Show, validate and store the global catalogue settings.

Values given as key=value are applied on top of the stored settings, then
the whole form is validated as if it were submitted from the settings page.

Examples:
  themedesigner settings show
  themedesigner settings validate theme_rewrite_base=theme
  themedesigner settings set menu_title=Skins themes_per_page=20
  themedesigner settings reset`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the settings in effect",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate <key=value>...",
	Short: "Validate settings without storing them",
	RunE:  runSettingsValidate,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Validate and store settings",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored settings and restore the defaults",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var settingsJSON bool

func init() {
	rootCmd.AddCommand(settingsCmd)

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)

	settingsCmd.PersistentFlags().BoolVar(&settingsJSON, "json", false, "print JSON")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	return printSettings(svc.settings.Get(), settings.Resolution{})
}

func runSettingsValidate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	form, err := mergeForm(svc.settings.Get(), args)
	if err != nil {
		return err
	}

	opts, res := svc.settings.Validate(form)
	return printSettings(opts, res)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	form, err := mergeForm(svc.settings.Get(), args)
	if err != nil {
		return err
	}

	opts, res, err := svc.settings.Update(ctx, form)
	if err != nil {
		return err
	}

	if !settingsJSON {
		fmt.Printf("%s Settings saved\n", checkMark)
	}
	return printSettings(opts, res)
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts, err := svc.settings.Reset(ctx)
	if err != nil {
		return err
	}

	if !settingsJSON {
		fmt.Printf("%s Settings reset to defaults\n", checkMark)
	}
	return printSettings(opts, settings.Resolution{})
}

// mergeForm applies key=value arguments over the current options.
func mergeForm(current settings.Options, args []string) (settings.Settings, error) {
	pairs, err := parsePairs(args)
	if err != nil {
		return nil, err
	}

	form := current.Map()
	for k, v := range pairs {
		if !settings.IsKnown(k) {
			return nil, fmt.Errorf("unknown setting %q", k)
		}
		form[k] = v
	}
	return form, nil
}

func printSettings(opts settings.Options, res settings.Resolution) error {
	if settingsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"settings":   opts,
			"permalinks": opts.Permalinks(),
			"conflicts":  res.Applied,
		})
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	fmt.Fprintln(w, "---\t-----")
	values := opts.Map()
	for _, k := range settings.Keys() {
		fmt.Fprintf(w, "%s\t%s\n", k, truncate(values[k], 50))
	}
	w.Flush()

	fmt.Println()
	fmt.Println("Permalinks:")
	links := opts.Permalinks()
	names := make([]string, 0, len(links))
	for name := range links {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-8s %s\n", name, links[name])
	}

	if res.Any() {
		fmt.Println()
	}
	for _, rule := range res.Applied {
		fmt.Printf("%s Permalink conflict resolved: %s\n", crossMark, rule)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
