// Package profilectl implements the profilectl command tree.
package profilectl

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"profile-listing-go/internal/client"
	"profile-listing-go/internal/session"
)

const defaultServer = "http://localhost:5000/api"

// IOStreams are the standard streams a command writes to.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

type options struct {
	server    string
	statePath string
	streams   IOStreams
}

// env is what a running subcommand works with.
type env struct {
	client *client.Client
	state  *session.State
	IOStreams
}

func (o *options) env() (*env, error) {
	path := o.statePath
	if path == "" {
		p, err := session.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	st, err := session.Load(path)
	if err != nil {
		return nil, err
	}
	c := client.New(o.server, nil)
	c.SetToken(st.Token)
	return &env{client: c, state: st, IOStreams: o.streams}, nil
}

func NewDefaultCommand() *cobra.Command {
	return NewCommand(IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
}

func NewCommand(streams IOStreams) *cobra.Command {
	o := &options{streams: streams}

	cmd := &cobra.Command{
		Use:           "profilectl",
		Short:         "profilectl browses and manages the profile directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	server := os.Getenv("PROFILECTL_SERVER")
	if server == "" {
		server = defaultServer
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&o.server, "server", server, "API base URL, including the prefix")
	flags.StringVar(&o.statePath, "state", "", "path of the local state file")

	cmd.AddCommand(
		newCmdDisclaimer(o),
		newCmdList(o),
		newCmdSearch(o),
		newCmdBrowse(o),
		newCmdShow(o),
		newCmdContact(o),
		newCmdFavorite(o),
		newCmdFavorites(o),
		newCmdLogin(o),
		newCmdLogout(o),
		newCmdDashboard(o),
		newCmdCreate(o),
		newCmdUpdate(o),
		newCmdDelete(o),
	)
	return cmd
}

// Execute runs the command tree and prints the error, if any.
func Execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		_, _ = color.New(color.FgRed).Fprintln(cmd.ErrOrStderr(), "error:", err)
	}
	return err
}

var errDisclaimer = errors.New("accept the disclaimer first: profilectl disclaimer --accept")

// public wraps a browsing command: it needs the disclaimer accepted.
func (o *options) public(run func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		e, err := o.env()
		if err != nil {
			return err
		}
		if !e.state.DisclaimerAccepted {
			return errDisclaimer
		}
		return run(e, args)
	}
}

var errNotLoggedIn = errors.New("not logged in: run profilectl login")

// admin wraps a management command: it needs a session, and a rejected
// token ends the session.
func (o *options) admin(run func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		e, err := o.env()
		if err != nil {
			return err
		}
		if !e.state.LoggedIn() {
			return errNotLoggedIn
		}
		err = run(e, args)
		if errors.Is(err, client.ErrUnauthorized) {
			e.state.ClearSession()
			if serr := e.state.Save(); serr != nil {
				return serr
			}
			return errors.New("session expired or invalid: run profilectl login")
		}
		return err
	}
}
