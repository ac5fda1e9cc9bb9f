package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artpar/themedesigner/domain/field"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Manage per-record field values",
	Long: `List field managers and read or save the field values of a record.

Posted input is given as key=value using the input names shown by
'fields list'. Date fields take _year, _month and _day inputs.

Examples:
  themedesigner fields list
  themedesigner fields get theme 42
  themedesigner fields save theme --record 42 thds_theme_setting_version=1.2`,
}

var fieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List field managers and their inputs",
	Args:  cobra.NoArgs,
	RunE:  runFieldsList,
}

var fieldsGetCmd = &cobra.Command{
	Use:   "get <manager> <record-id>",
	Short: "Show the stored values of a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runFieldsGet,
}

var fieldsSaveCmd = &cobra.Command{
	Use:   "save <manager> <input=value>...",
	Short: "Save posted input for a record",
	Long: `Save posted input for a record. Without --record a new record ID
is generated. Fields whose input is missing or empty are cleared.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFieldsSave,
}

var fieldsRecordID string

func init() {
	rootCmd.AddCommand(fieldsCmd)

	fieldsCmd.AddCommand(fieldsListCmd)
	fieldsCmd.AddCommand(fieldsGetCmd)
	fieldsCmd.AddCommand(fieldsSaveCmd)

	fieldsSaveCmd.Flags().StringVar(&fieldsRecordID, "record", "", "record ID (generated when empty)")
}

func runFieldsList(cmd *cobra.Command, args []string) error {
	svc, err := openServices(context.Background())
	if err != nil {
		return err
	}
	defer svc.Close()

	managers := svc.fields.Managers()
	if len(managers) == 0 {
		fmt.Println("No field managers configured.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MANAGER\tFIELD\tTYPE\tINPUTS\tLABEL")
	fmt.Fprintln(w, "-------\t-----\t----\t-----\t-----")
	for _, m := range managers {
		for _, st := range m.Settings() {
			inputs := strings.Join(st.Inputs(), ", ")
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", m.Name(), st.Name(), st.Kind(), inputs, st.Label())
		}
	}
	w.Flush()
	return nil
}

func runFieldsGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	m, err := svc.fields.Manager(args[0])
	if err != nil {
		return err
	}
	values, err := svc.fields.Values(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tVALUE")
	fmt.Fprintln(w, "-----\t-----")
	for _, st := range m.Settings() {
		fmt.Fprintf(w, "%s\t%s\n", st.Name(), values[st.Name()])
	}
	w.Flush()
	return nil
}

func runFieldsSave(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	pairs, err := parsePairs(args[1:])
	if err != nil {
		return err
	}
	posted := field.Posted(pairs)

	recordID := fieldsRecordID
	var results []field.Result
	if recordID == "" {
		recordID, results, err = svc.fields.SaveNew(ctx, args[0], posted)
	} else {
		results, err = svc.fields.Save(ctx, args[0], recordID, posted)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s Saved record %s\n", checkMark, recordID)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tCHANGE\tVALUE")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Change, r.Value)
	}
	w.Flush()
	return nil
}
