package profilectl

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"profile-listing-go/internal/client"
	"profile-listing-go/internal/filter"
	"profile-listing-go/internal/models"
	"profile-listing-go/internal/profileview"
)

const disclaimerText = `Before you continue:
  - I confirm that I am at least 18 years of age.
  - I understand the directory does not personally verify every profile detail.
  - I agree to use this information responsibly.`

func newCmdDisclaimer(o *options) *cobra.Command {
	var accept, revoke bool
	cmd := &cobra.Command{
		Use:   "disclaimer",
		Short: "Show or accept the usage disclaimer",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := o.env()
			if err != nil {
				return err
			}
			switch {
			case accept:
				e.state.DisclaimerAccepted = true
			case revoke:
				e.state.DisclaimerAccepted = false
			default:
				fmt.Fprintln(e.Out, disclaimerText)
				if e.state.DisclaimerAccepted {
					fmt.Fprintln(e.Out, color.GreenString("Accepted."))
				} else {
					fmt.Fprintln(e.Out, "Run with --accept to agree.")
				}
				return nil
			}
			if err := e.state.Save(); err != nil {
				return err
			}
			fmt.Fprintln(e.Out, color.GreenString("Disclaimer preference saved."))
			return nil
		},
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "accept the disclaimer")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "withdraw a previous acceptance")
	cmd.MarkFlagsMutuallyExclusive("accept", "revoke")
	return cmd
}

func newCmdList(o *options) *cobra.Command {
	var opts client.ListOptions
	var featured bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles, newest first",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = o.public(func(e *env, _ []string) error {
		if cmd.Flags().Changed("featured") {
			opts.Featured = &featured
		}
		profiles, err := e.client.List(context.Background(), opts)
		if err != nil {
			return err
		}
		printProfiles(e.Out, profiles, e.state.IsFavorite)
		return nil
	})
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured (or, with =false, non-featured) profiles")
	cmd.Flags().StringVar(&opts.Complexion, "complexion", "", "exact complexion")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location substring")
	cmd.Flags().StringVar(&opts.SortBy, "sort-by", "", "sort field, e.g. createdAt, age, name")
	cmd.Flags().StringVar(&opts.Order, "order", "", "desc (default) or asc")
	return cmd
}

func newCmdSearch(o *options) *cobra.Command {
	var opts client.SearchOptions
	var ageMin, ageMax int
	cmd := &cobra.Command{
		Use:   "search LOCATION",
		Short: "Search profiles in a location on the server",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = o.public(func(e *env, args []string) error {
		opts.Location = args[0]
		if cmd.Flags().Changed("age-min") {
			opts.AgeMin = &ageMin
		}
		if cmd.Flags().Changed("age-max") {
			opts.AgeMax = &ageMax
		}
		profiles, err := e.client.Search(context.Background(), opts)
		if err != nil {
			return err
		}
		printProfiles(e.Out, profiles, e.state.IsFavorite)
		return nil
	})
	cmd.Flags().StringVar(&opts.Name, "name", "", "name substring")
	cmd.Flags().StringVar(&opts.Complexion, "complexion", "", "exact complexion")
	cmd.Flags().IntVar(&ageMin, "age-min", 0, "minimum age, inclusive")
	cmd.Flags().IntVar(&ageMax, "age-max", 0, "maximum age, inclusive")
	return cmd
}

// browse fetches the full list once and filters it locally.
func newCmdBrowse(o *options) *cobra.Command {
	crit := filter.DefaultCriteria()
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Fetch every profile and filter locally",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = o.public(func(e *env, _ []string) error {
		if crit.AgeMin > crit.AgeMax {
			return errors.Errorf("age-min %d is above age-max %d", crit.AgeMin, crit.AgeMax)
		}
		profiles, err := e.client.List(context.Background(), client.ListOptions{})
		if err != nil {
			return err
		}
		printProfiles(e.Out, crit.Apply(profiles), e.state.IsFavorite)
		return nil
	})
	cmd.Flags().StringVar(&crit.Location, "location", "", "exact location")
	cmd.Flags().IntVar(&crit.AgeMin, "age-min", filter.DefaultAgeMin, "minimum age, inclusive")
	cmd.Flags().IntVar(&crit.AgeMax, "age-max", filter.DefaultAgeMax, "maximum age, inclusive")
	cmd.Flags().StringVar(&crit.Complexion, "complexion", "", "exact complexion")
	cmd.Flags().StringVar(&crit.Name, "name", "", "name substring, any case")
	return cmd
}

func newCmdShow(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one profile",
		Args:  cobra.ExactArgs(1),
		RunE: o.public(func(e *env, args []string) error {
			p, err := e.client.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			printProfile(e.Out, p, e.state.IsFavorite(p.ID.String()))
			return nil
		}),
	}
}

// contact reveals the contact details and records the click.
func newCmdContact(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "contact ID",
		Short: "Reveal a profile's contact details",
		Args:  cobra.ExactArgs(1),
		RunE: o.public(func(e *env, args []string) error {
			ctx := context.Background()
			p, err := e.client.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if _, err := e.client.Click(ctx, args[0]); err != nil {
				return err
			}
			printContact(e, p)
			return nil
		}),
	}
}

func printContact(e *env, p *models.Profile) {
	fmt.Fprintf(e.Out, "%s: %s\n", p.Name, p.ContactInfo)
	if tel := profileview.TelURL(p.ContactInfo); tel != "" {
		fmt.Fprintf(e.Out, "Call:     %s\n", tel)
	}
	if wa := profileview.WhatsAppURL(p.ContactInfo); wa != "" {
		fmt.Fprintf(e.Out, "WhatsApp: %s\n", wa)
	}
}

func newCmdFavorite(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite ID",
		Short: "Add or remove a profile from your favorites",
		Args:  cobra.ExactArgs(1),
		RunE: o.public(func(e *env, args []string) error {
			added := e.state.ToggleFavorite(args[0])
			if err := e.state.Save(); err != nil {
				return err
			}
			if added {
				fmt.Fprintln(e.Out, color.GreenString("Added to favorites"))
			} else {
				fmt.Fprintln(e.Out, "Removed from favorites")
			}
			return nil
		}),
	}
}

func newCmdFavorites(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List your favorite profiles",
		Args:  cobra.NoArgs,
		RunE: o.public(func(e *env, _ []string) error {
			ctx := context.Background()
			var out []models.Profile
			for _, id := range e.state.Favorites {
				p, err := e.client.Get(ctx, id)
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Status == 404 {
					fmt.Fprintf(e.ErrOut, "favorite %s no longer exists\n", id)
					continue
				}
				if err != nil {
					return err
				}
				out = append(out, *p)
			}
			printProfiles(e.Out, out, e.state.IsFavorite)
			return nil
		}),
	}
}
