package profilectl

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"profile-listing-go/internal/client"
	"profile-listing-go/internal/dashboard"
	"profile-listing-go/internal/models"
)

func newCmdLogin(o *options) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := o.env()
			if err != nil {
				return err
			}
			if password == "" {
				fmt.Fprint(e.Out, "Password: ")
				line, err := bufio.NewReader(e.In).ReadString('\n')
				if err != nil && line == "" {
					return errors.Wrap(err, "read password")
				}
				password = strings.TrimRight(line, "\r\n")
				fmt.Fprintln(e.Out)
			}

			res, err := e.client.Login(context.Background(), username, password)
			if err != nil {
				return err
			}
			e.state.SetSession(res.Token, res.User)
			if err := e.state.Save(); err != nil {
				return err
			}
			fmt.Fprintln(e.Out, color.GreenString("Logged in as %s", res.User.Username))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newCmdLogout(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the admin session",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := o.env()
			if err != nil {
				return err
			}
			e.state.ClearSession()
			if err := e.state.Save(); err != nil {
				return err
			}
			fmt.Fprintln(e.Out, "Logged out.")
			return nil
		},
	}
}

func newCmdDashboard(o *options) *cobra.Command {
	var remote bool
	var top int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show directory totals and the busiest locations",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = o.admin(func(e *env, _ []string) error {
		ctx := context.Background()
		if remote {
			s, err := e.client.Stats(ctx, top)
			if err != nil {
				return err
			}
			printStats(e.Out, s.Stats, s.TopLocations, s.MostContacted)
			return nil
		}

		profiles, err := e.client.List(ctx, client.ListOptions{})
		if err != nil {
			return err
		}
		s := dashboard.Summarize(profiles)
		printStats(e.Out, s, s.TopLocations(top), dashboard.TopClicked(profiles, top))
		return nil
	})
	cmd.Flags().BoolVar(&remote, "remote", false, "aggregate on the server instead of locally")
	cmd.Flags().IntVar(&top, "top", 5, "number of locations to show")
	return cmd
}

// profileFlags are the create/update inputs.
type profileFlags struct {
	name        string
	age         int
	height      string
	complexion  string
	location    string
	description string
	contact     string
	featured    bool
	mainImage   string
	gallery     []string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.name, "name", "", "display name")
	fs.IntVar(&f.age, "age", 0, "age in years")
	fs.StringVar(&f.height, "height", "", "height, free text")
	fs.StringVar(&f.complexion, "complexion", "", "one of "+complexionList())
	fs.StringVar(&f.location, "location", "", "city or area")
	fs.StringVar(&f.description, "description", "", "bio; may use About Me:, What I Offer: and similar labels")
	fs.StringVar(&f.contact, "contact", "", "contact phone number")
	fs.BoolVar(&f.featured, "featured", false, "mark as a top pick")
	fs.StringVar(&f.mainImage, "main-image", "", "path of the main image")
	fs.StringSliceVar(&f.gallery, "gallery", nil, "paths of gallery images, replacing the current gallery")
}

func complexionList() string {
	names := make([]string, len(models.Complexions))
	for i, c := range models.Complexions {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// form builds a submission from the flags the user set. all forces every
// text field to be sent, as create requires.
func (f *profileFlags) form(cmd *cobra.Command, all bool) (client.ProfileForm, func(), error) {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }
	fields := map[string]string{}
	set := func(flag, field, v string) {
		if changed(flag) {
			fields[field] = v
		}
	}
	set("name", "name", f.name)
	set("height", "height", f.height)
	set("complexion", "complexion", f.complexion)
	set("location", "location", f.location)
	set("description", "description", f.description)
	set("contact", "contactInfo", f.contact)
	if changed("age") {
		fields["age"] = strconv.Itoa(f.age)
	}
	if changed("featured") {
		fields["isFeatured"] = strconv.FormatBool(f.featured)
	}

	var opened []*os.File
	closeAll := func() {
		for _, fh := range opened {
			_ = fh.Close()
		}
	}
	open := func(path string) (client.File, error) {
		fh, err := os.Open(path)
		if err != nil {
			return client.File{}, errors.Wrap(err, "open image")
		}
		opened = append(opened, fh)
		return client.File{Name: filepath.Base(path), Content: fh}, nil
	}

	form := client.ProfileForm{Fields: fields}
	if f.mainImage != "" {
		file, err := open(f.mainImage)
		if err != nil {
			closeAll()
			return form, nil, err
		}
		form.MainImage = &file
	}
	for _, p := range f.gallery {
		file, err := open(p)
		if err != nil {
			closeAll()
			return form, nil, err
		}
		form.Gallery = append(form.Gallery, file)
	}
	return form, closeAll, nil
}

func newCmdCreate(o *options) *cobra.Command {
	f := &profileFlags{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a profile",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = o.admin(func(e *env, _ []string) error {
		form, done, err := f.form(cmd, true)
		if err != nil {
			return err
		}
		defer done()
		p, err := e.client.Create(context.Background(), form)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.Out, color.GreenString("Profile created: %s", p.ID))
		return nil
	})
	f.register(cmd)
	for _, name := range []string{"name", "age", "height", "complexion", "location", "description", "contact", "main-image"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newCmdUpdate(o *options) *cobra.Command {
	f := &profileFlags{}
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the fields of a profile that are given as flags",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = o.admin(func(e *env, args []string) error {
		form, done, err := f.form(cmd, false)
		if err != nil {
			return err
		}
		defer done()
		if len(form.Fields) == 0 && form.MainImage == nil && len(form.Gallery) == 0 {
			return errors.New("nothing to update")
		}
		p, err := e.client.Update(context.Background(), args[0], form)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.Out, color.GreenString("Profile updated: %s", p.ID))
		return nil
	})
	f.register(cmd)
	return cmd
}

func newCmdDelete(o *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a profile and its images",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = o.admin(func(e *env, args []string) error {
		if !yes {
			fmt.Fprintf(e.Out, "Delete profile %s? [y/N] ", args[0])
			line, _ := bufio.NewReader(e.In).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Fprintln(e.Out, "Aborted.")
				return nil
			}
		}
		if err := e.client.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(e.Out, color.GreenString("Profile deleted."))
		return nil
	})
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
