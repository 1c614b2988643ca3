package profilectl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"profile-listing-go/internal/dashboard"
	"profile-listing-go/internal/models"
	"profile-listing-go/internal/profileview"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetBorder(false)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func printProfiles(w io.Writer, profiles []models.Profile, favorite func(string) bool) {
	if len(profiles) == 0 {
		fmt.Fprintln(w, "No profiles found.")
		return
	}
	t := newTable(w, "ID", "Name", "Age", "Location", "Complexion", "Clicks", "")
	for _, p := range profiles {
		var marks string
		if p.IsFeatured {
			marks += "top pick "
		}
		if favorite != nil && favorite(p.ID.String()) {
			marks += "*"
		}
		t.Append([]string{
			p.ID.String(),
			p.Name,
			strconv.Itoa(p.Age),
			p.Location,
			string(p.Complexion),
			strconv.Itoa(p.ContactClicks),
			marks,
		})
	}
	t.Render()
	fmt.Fprintf(w, "%d profile(s)\n", len(profiles))
}

func printProfile(w io.Writer, p *models.Profile, favorite bool) {
	title := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s, %d\n", title(p.Name), p.Age)
	if p.IsFeatured {
		fmt.Fprintln(w, color.YellowString("Top Pick"))
	}
	if favorite {
		fmt.Fprintln(w, color.MagentaString("In your favorites"))
	}
	fmt.Fprintf(w, "Location:   %s\nHeight:     %s\nComplexion: %s\n", p.Location, p.Height, p.Complexion)

	for _, s := range profileview.Sections(p.Description) {
		fmt.Fprintln(w)
		if s.Title != "" {
			fmt.Fprintln(w, color.CyanString(s.Title))
		}
		fmt.Fprintln(w, s.Body)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, color.CyanString("Images"))
	for i, u := range profileview.Gallery(*p) {
		fmt.Fprintf(w, "  %d. %s\n", i+1, u)
	}
}

func printStats(w io.Writer, s dashboard.Stats, top []dashboard.LocationCount, contacted []models.Profile) {
	t := newTable(w, "Metric", "Value")
	t.Append([]string{"Total profiles", strconv.Itoa(s.TotalProfiles)})
	t.Append([]string{"Locations", strconv.Itoa(len(s.LocationCounts))})
	t.Append([]string{"Featured", strconv.Itoa(s.FeaturedCount)})
	t.Append([]string{"Contact clicks", strconv.Itoa(s.TotalContactClicks)})
	t.Render()

	if len(top) > 0 {
		fmt.Fprintln(w)
		lt := newTable(w, "Location", "Profiles")
		for _, l := range top {
			lt.Append([]string{l.Location, strconv.Itoa(l.Count)})
		}
		lt.Render()
	}

	if len(contacted) > 0 {
		fmt.Fprintln(w)
		ct := newTable(w, "Most contacted", "Location", "Clicks")
		for _, p := range contacted {
			ct.Append([]string{p.Name, p.Location, strconv.Itoa(p.ContactClicks)})
		}
		ct.Render()
	}
}
