package main

import (
	"fmt"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"idreg/internal/actions"
	"idreg/internal/registry"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the console runtime configuration",
		Long:  `Fetches /api/config. An unreachable or failing console reports maintenance mode.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printJSON(a.client().GetConfig(cmd.Context()))
		},
	}
}

func newResourcesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the registry resources known to the CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all := registry.All()
			if a.jsonOut {
				return a.printJSON(all)
			}
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPATH\tROUTE\tFLAGS")
			for _, r := range all {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Name, r.Path(""), r.Route, resourceFlags(r))
			}
			return w.Flush()
		},
	}
}

func resourceFlags(r registry.Resource) string {
	var flags []string
	if r.Batch {
		flags = append(flags, "batch")
	}
	if r.Downloadable {
		flags = append(flags, "download")
	}
	return strings.Join(flags, ",")
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <resource> [id]",
		Short: "Read a collection or a single entry",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			c := a.client()
			return a.finish(c, c.MakeAPIRequest(cmd.Context(), actions.Request{
				URL:                 res.Path(optionalArg(args, 1)),
				AuthenticationToken: a.token,
			}))
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var dataPath, redirect string
	cmd := &cobra.Command{
		Use:   "create <resource> --data <file>",
		Short: "Create an entry (expects 201 Created)",
		Long:  `Creates an entry from a JSON or YAML file ("-" reads stdin). Server-managed metadata fields are removed before sending.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if redirect == "" {
				redirect = res.RedirectRoute("")
			}
			c := a.client()
			return a.finish(c, c.CreateRequest(cmd.Context(), actions.Request{
				URL:                 res.Path(""),
				Values:              asValues(values),
				AuthenticationToken: a.token,
				RedirectRoute:       redirect,
			}))
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON or YAML file with the entry values")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Route to show after success (defaults to the resource list)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var dataPath string
	cmd := &cobra.Command{
		Use:   "update <resource> <id> --data <file>",
		Short: "Replace an entry (expects 200 OK) and print the stored entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			c := a.client()
			return a.finish(c, c.UpdateEntry(cmd.Context(), actions.Request{
				URL:                 res.Path(args[1]),
				Values:              asValues(values),
				AuthenticationToken: a.token,
			}))
		},
	}
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON or YAML file with the entry values")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete an entry (expects 204 No Content)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			c := a.client()
			return a.finish(c, c.DeleteEntry(cmd.Context(), actions.Request{
				URL:                 res.Path(args[1]),
				AuthenticationToken: a.token,
				RedirectRoute:       res.RedirectRoute(""),
			}))
		},
	}
}

func newRemoveBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-batch <id>",
		Short: "Remove an identifier batch (expects 204 No Content)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := batchResource()
			if err != nil {
				return err
			}
			c := a.client()
			return a.finish(c, c.RemoveBatch(cmd.Context(), actions.Request{
				URL:                 res.Path(args[0]),
				AuthenticationToken: a.token,
			}))
		},
	}
}

func batchResource() (registry.Resource, error) {
	for _, r := range registry.All() {
		if r.Batch {
			return r, nil
		}
	}
	return registry.Resource{}, errors.Wrap(registry.ErrUnknownResource, "no batch resource")
}

func newRequestCmd(a *app) *cobra.Command {
	var (
		method, dataPath, redirect string
		filterMetadata             bool
	)
	cmd := &cobra.Command{
		Use:   "request <path>",
		Short: "Send any request under /api (success is any 2xx)",
		Long: `Sends a request to a console path such as /api/isbn-registry/publishers/search.
With --redirect the route is shown instead of the response body.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			c := a.client()
			return a.finish(c, c.MakeAPIRequest(cmd.Context(), actions.Request{
				URL:                  args[0],
				Method:               strings.ToUpper(method),
				Values:               asValues(values),
				AuthenticationToken:  a.token,
				FilterMetadataFields: filterMetadata,
				RedirectRoute:        redirect,
				Navigate:             redirect != "",
			}))
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON or YAML file sent as the request body")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Route to show after success instead of the body")
	cmd.Flags().BoolVar(&filterMetadata, "filter-metadata", false, "Remove server-managed metadata fields from the body")
	return cmd
}

func newDownloadCmd(a *app) *cobra.Command {
	var method, dataPath, name string
	cmd := &cobra.Command{
		Use:   "download <resource> [id]",
		Short: "Download a file (statistics, MARC records, batch identifiers)",
		Long: `Saves the response into --out. Without --name the file is called statistics.json
or statistics.xlsx depending on the content type.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}
			if !res.Downloadable {
				return errors.Errorf("resource %q has no downloads", res.Name)
			}
			values, err := readValues(dataPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			c := a.client()
			return a.finish(c, c.DownloadFile(cmd.Context(), actions.Request{
				URL:                 res.Path(optionalArg(args, 1)),
				Method:              strings.ToUpper(method),
				Values:              asValues(values),
				AuthenticationToken: a.token,
				DownloadName:        name,
			}))
		},
	}
	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON or YAML file sent as the request body")
	cmd.Flags().StringVar(&name, "name", "", "File name to save as")
	return cmd
}

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

// asValues keeps an absent body as a nil interface rather than a typed nil map.
func asValues(values map[string]any) any {
	if values == nil {
		return nil
	}
	return values
}
