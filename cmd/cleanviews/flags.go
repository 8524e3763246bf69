package main

import (
	"github.com/spf13/cobra"

	"github.com/cleanviews/cleanviews/pkg/views"
)

// viewFlags maps the routing configuration parameters onto CLI flags.
type viewFlags struct {
	scanPaths         string
	extensionAction   string
	pathAction        string
	virtualExtensions string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scanPaths, "scan-paths", "",
		"Comma separated scan roots (e.g. \"/*.xhtml, !/legacy\")")
	cmd.Flags().StringVar(&f.extensionAction, "extension-action", "",
		"Action for extension-bearing requests: redirect-to-extensionless or serve-as-is")
	cmd.Flags().StringVar(&f.pathAction, "path-action", "",
		"Action for unmatched public paths: send-404 or fall-through")
	cmd.Flags().StringVar(&f.virtualExtensions, "virtual-extensions", "",
		"Comma separated legacy extensions to keep resolving (e.g. \".jsf\")")
}

func (f *viewFlags) config() (*views.Config, error) {
	return views.ParseConfig(views.MapParams(map[string]string{
		views.ParamScanPaths:         f.scanPaths,
		views.ParamExtensionAction:   f.extensionAction,
		views.ParamPathAction:        f.pathAction,
		views.ParamVirtualExtensions: f.virtualExtensions,
	}))
}
