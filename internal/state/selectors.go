package state

import "github.com/erazemk/imenik/internal/model"

// PeopleByCompany returns the people linked to companyID, in order.
func PeopleByCompany(people []model.Person, companyID string) []model.Person {
	out := []model.Person{}
	for _, p := range people {
		if p.WorksAt(companyID) {
			out = append(out, p)
		}
	}
	return out
}

// Summary holds the dashboard totals.
type Summary struct {
	TotalPeople    int `json:"totalPeople"`
	TotalCompanies int `json:"totalCompanies"`
}

// Summarize counts the loaded people and companies.
func Summarize(st State) Summary {
	return Summary{
		TotalPeople:    len(st.People.Items),
		TotalCompanies: len(st.Companies.Items),
	}
}
