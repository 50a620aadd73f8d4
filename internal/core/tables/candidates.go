package tables

import (
	"time"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

func init() {
	registerCandidates()
}

// Candidate pipeline stages, in funnel order.
var candidateStages = []string{"Applied", "Screen", "Onsite", "Offer", "Hired", "Rejected"}

func registerCandidates() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "candidates",
			Group:       GroupRecruiting,
			Label:       "Candidates",
			Description: "Everyone in the hiring pipeline",
		},
		KeyField: "id",
		Columns: []table.ColumnSpec{
			{ID: "name", Label: "Name"},
			{ID: "email", Label: "Email"},
			{ID: "stage", Label: "Stage", Kind: table.KindSelect, Options: candidateStages},
			{ID: "skills", Label: "Skills", Kind: table.KindMultiSelect,
				Options: []string{"Go", "Python", "SQL", "React", "Kubernetes", "Recruiting"}},
			{ID: "years_experience", Label: "Experience", Kind: table.KindRange},
			{ID: "salary_expectation", Label: "Salary Exp.", Kind: table.KindRange, StrictRange: true},
			{ID: "applied_on", Label: "Applied", NoFilter: true},
			{ID: "source", Label: "Source", Kind: table.KindSelect,
				Options: []string{"Referral", "LinkedIn", "Careers Page", "Agency"}},
			{ID: "rating", Label: "Rating", Kind: table.KindRange},
		},
		SearchFields: []string{"name", "email", "skills"},
		Source:       datasource.NewStatic(candidateRecords()),
		DefaultSort:  table.SortState{ColumnID: "applied_on", Direction: table.Desc},
	})
}

// candidateRecords is the mock pipeline. Values are deliberately untidy:
// missing fields, numbers stored as strings, and currency-formatted salaries.
func candidateRecords() []table.Record {
	return []table.Record{
		{"id": 1001, "name": "Ada Lovelace", "email": "ada@example.com", "stage": "Onsite",
			"skills": []string{"Python", "SQL"}, "years_experience": 9, "salary_expectation": "$165,000",
			"applied_on": day(2024, time.February, 12), "source": "Referral", "rating": 4.5},
		{"id": 1002, "name": "Grace Hopper", "email": "grace@example.com", "stage": "Offer",
			"skills": []string{"Go", "Kubernetes"}, "years_experience": 14, "salary_expectation": 182000,
			"applied_on": day(2024, time.January, 28), "source": "LinkedIn", "rating": 5},
		{"id": 1003, "name": "Alan Turing", "email": "alan@example.com", "stage": "Screen",
			"skills": []string{"Go", "Python"}, "years_experience": "7", "salary_expectation": "150000",
			"applied_on": "2024-03-04", "source": "Careers Page", "rating": 3.5},
		{"id": 1004, "name": "Linus Torvalds", "email": nil, "stage": "Applied",
			"skills": nil, "years_experience": nil, "salary_expectation": nil,
			"applied_on": nil, "source": nil, "rating": nil},
		{"id": 1005, "name": "Margaret Hamilton", "email": "margaret@example.com", "stage": "Hired",
			"skills": []string{"Go", "SQL"}, "years_experience": 11.5, "salary_expectation": "$171,500.00",
			"applied_on": day(2023, time.November, 2), "source": "Agency", "rating": 4.8},
		{"id": 1006, "name": "Ken Thompson", "email": "ken@example.com", "stage": "Rejected",
			"skills": []string{"Go"}, "years_experience": 30, "salary_expectation": "negotiable",
			"applied_on": day(2024, time.March, 1), "source": "Referral", "rating": 2},
		{"id": 1007, "name": "Barbara Liskov", "email": "barbara@example.com", "stage": "Onsite",
			"skills": []string{"SQL", "React"}, "years_experience": 6, "salary_expectation": 140000,
			"applied_on": day(2024, time.February, 20), "source": "LinkedIn", "rating": "4"},
		{"id": 1008, "name": "Dennis Ritchie", "email": "dmr@example.com", "stage": "screen",
			"skills": []string{"Go", "Kubernetes", "SQL"}, "years_experience": 18, "salary_expectation": "(0)",
			"applied_on": "03/11/2024", "source": "Careers Page", "rating": 4.1},
		{"id": 1009, "name": "Frances Allen", "email": "fran@example.com", "stage": "Applied",
			"skills": []string{"Recruiting"}, "years_experience": 2, "salary_expectation": "$95,000",
			"applied_on": day(2024, time.March, 9), "source": "Agency", "rating": nil},
		{"id": 1010, "name": "Edsger Dijkstra", "email": "edsger@example.com", "stage": "Screen",
			"skills": []string{"Python"}, "years_experience": 4, "salary_expectation": 1.2e5,
			"applied_on": day(2024, time.January, 15), "source": "Referral", "rating": 3},
		{"id": 1011, "name": "Katherine Johnson", "email": "kj@example.com", "stage": "Offer",
			"skills": []string{"Python", "SQL", "React"}, "years_experience": 8, "salary_expectation": "$158,000",
			"applied_on": day(2024, time.February, 5), "source": "LinkedIn", "rating": 4.7},
		{"id": 1012, "name": "John Backus", "email": "", "stage": "Applied",
			"skills": []string{}, "years_experience": 1, "salary_expectation": 88000,
			"applied_on": "Mar 12, 2024", "source": "Careers Page", "rating": 2.5},
		{"id": 1013, "name": "Radia Perlman", "email": "radia@example.com", "stage": "Onsite",
			"skills": []string{"Kubernetes"}, "years_experience": 16, "salary_expectation": "$190,000",
			"applied_on": day(2024, time.February, 27), "source": "Referral", "rating": 4.9},
		{"id": 1014, "name": "Niklaus Wirth", "email": "niklaus@example.com", "stage": "Rejected",
			"skills": []string{"SQL"}, "years_experience": 25, "salary_expectation": nil,
			"applied_on": day(2023, time.December, 18), "source": "Agency", "rating": 1.5},
	}
}
