package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/erazemk/imenik/internal/model"
	"github.com/erazemk/imenik/internal/state"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderPeople(w io.Writer, people []model.Person) error {
	if len(people) == 0 {
		_, err := fmt.Fprintln(w, "No people.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCOMPANY\tNOTES")
	for _, p := range people {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, orDash(p.CompanyName), orDash(p.Notes))
	}
	return tw.Flush()
}

func renderPerson(w io.Writer, p model.Person) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Company:\t%s\n", orDash(p.CompanyName))
	fmt.Fprintf(tw, "Notes:\t%s\n", orDash(p.Notes))
	return tw.Flush()
}

func renderCompanies(w io.Writer, companies []model.Company) error {
	if len(companies) == 0 {
		_, err := fmt.Fprintln(w, "No companies.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, c := range companies {
		fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
	}
	return tw.Flush()
}

// companyDetail is the company view: the company and the people working there.
type companyDetail struct {
	Company model.Company  `json:"company"`
	People  []model.Person `json:"people"`
}

func renderCompanyDetail(w io.Writer, d companyDetail) error {
	fmt.Fprintf(w, "%s (%s)\n\n", d.Company.Name, d.Company.ID)
	if len(d.People) == 0 {
		_, err := fmt.Fprintln(w, "No people at this company.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tNOTES")
	for _, p := range d.People {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Name, orDash(p.Notes))
	}
	return tw.Flush()
}

// dashboard is the signed-in overview.
type dashboard struct {
	Email string `json:"email"`
	state.Summary
}

func renderDashboard(w io.Writer, d dashboard) error {
	fmt.Fprintf(w, "Signed in as %s\n\n", d.Email)

	tw := newTable(w)
	fmt.Fprintf(tw, "Clients\t%d\n", d.TotalPeople)
	fmt.Fprintf(tw, "Companies\t%d\n", d.TotalCompanies)
	return tw.Flush()
}
