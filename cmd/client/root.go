package main

import (
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"idreg/internal/actions"
	"idreg/internal/files"
	"idreg/internal/utils"
)

// Default console base URL; IDREG_SERVER or --server override it.
const defaultServer = "http://localhost:8080"

// app holds the state shared by all subcommands of one invocation.
type app struct {
	server  string
	token   string
	outDir  string
	jsonOut bool
	verbose bool

	out    io.Writer
	errOut io.Writer
	// httpClient is replaced in tests.
	httpClient *http.Client
	logger     *logrus.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, httpClient: &http.Client{}}

	root := &cobra.Command{
		Use:   "idreg",
		Short: "Command line access to the identifier registry console API",
		Long: `idreg runs the console's registry actions (create, update, delete, batch removal,
generic API requests and downloads) against a console server and prints the
resulting notification.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if a.verbose {
				level = "debug"
			}
			logger, _, err := utils.NewLogger(utils.LogOptions{Level: level})
			if err != nil {
				return err
			}
			logger.SetOutput(a.errOut)
			a.logger = logger
			return nil
		},
	}

	server := os.Getenv("IDREG_SERVER")
	if server == "" {
		server = defaultServer
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.server, "server", server, "Console base URL (env IDREG_SERVER)")
	flags.StringVar(&a.token, "token", os.Getenv("IDREG_TOKEN"), "Bearer token (env IDREG_TOKEN)")
	flags.StringVar(&a.outDir, "out", ".", "Directory downloads are saved to")
	flags.BoolVar(&a.jsonOut, "json", false, "Print notifications and results as JSON")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newConfigCmd(a),
		newResourcesCmd(a),
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newRemoveBatchCmd(a),
		newRequestCmd(a),
		newDownloadCmd(a),
	)
	return root
}

func (a *app) client() *actions.Client {
	return actions.New(
		actions.WithBaseURL(strings.TrimRight(a.server, "/")),
		actions.WithHTTPClient(a.httpClient),
		actions.WithLogger(a.logger),
		actions.WithSaver(files.NewDirSaver(a.outDir)),
	)
}
