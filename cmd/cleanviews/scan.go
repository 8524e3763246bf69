package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleanviews/cleanviews/pkg/resources"
	"github.com/cleanviews/cleanviews/pkg/views"
)

func scanCmd() *cobra.Command {
	var (
		root  string
		flags viewFlags
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print the computed URL mapping table",
		Long: `Scan the application directory and print every URL a view is
reachable under, together with the dispatcher mappings a host
container would need.

Examples:
  cleanviews scan
  cleanviews scan --root ./webapp --scan-paths "/*.xhtml/*"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, root, flags)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Application directory to scan")
	flags.register(cmd)

	return cmd
}

func runScan(cmd *cobra.Command, root string, flags viewFlags) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}

	result, err := views.NewRuntime(cfg, resources.NewOSDirStore(root)).ScanResult()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Empty() {
		fmt.Fprintln(out, "no views found")
		return nil
	}

	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "URL\tRESOURCE")
	for _, key := range result.Keys() {
		resource, _ := result.Lookup(key)
		fmt.Fprintf(w, "%s\t%s\n", key, resource)
	}
	w.Flush()

	fmt.Fprintln(out)
	if welcome := result.WelcomeFiles(); len(welcome) > 0 {
		fmt.Fprintf(out, "welcome files:       %s\n", strings.Join(welcome, ", "))
	}
	if mw := result.MultiViewsWelcomeFile(); mw != "" {
		fmt.Fprintf(out, "multiviews welcome:  %s\n", mw)
	}
	fmt.Fprintf(out, "extensions:          %s\n", strings.Join(result.Extensions(), ", "))
	fmt.Fprintf(out, "dispatcher mappings: %s\n", strings.Join(result.DispatcherMappings(), ", "))
	fmt.Fprintf(out, "%d URLs mapped\n", result.Len())

	return nil
}
