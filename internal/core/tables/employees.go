package tables

import (
	"time"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

func init() {
	registerEmployees()
}

func registerEmployees() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "employees",
			Group:       GroupPeople,
			Label:       "Employees",
			Description: "Current staff directory",
		},
		KeyField: "employee_id",
		Columns: []table.ColumnSpec{
			{ID: "name", Label: "Name"},
			{ID: "department", Label: "Department", Kind: table.KindSelect,
				Options: []string{"Engineering", "Sales", "People", "Finance"}},
			{ID: "title", Label: "Title"},
			{ID: "start_date", Label: "Start Date", NoFilter: true},
			{ID: "salary", Label: "Salary", Kind: table.KindRange, StrictRange: true},
			{ID: "manager", Label: "Manager"},
		},
		Source:      datasource.NewStatic(employeeRecords()),
		DefaultSort: table.SortState{ColumnID: "name", Direction: table.Asc},
	})
}

func employeeRecords() []table.Record {
	return []table.Record{
		{"employee_id": "E-001", "name": "Rob Pike", "department": "Engineering", "title": "Director of Engineering",
			"start_date": day(2019, time.April, 1), "salary": "$240,000", "manager": nil},
		{"employee_id": "E-002", "name": "Sheryl Park", "department": "Sales", "title": "VP Sales",
			"start_date": day(2020, time.June, 15), "salary": 225000, "manager": nil},
		{"employee_id": "E-003", "name": "Ada Reyes", "department": "Engineering", "title": "Staff Engineer",
			"start_date": "2021-02-08", "salary": 198000.5, "manager": "Rob Pike"},
		{"employee_id": "E-004", "name": "Omar Haddad", "department": "Finance", "title": "Controller",
			"start_date": day(2018, time.September, 3), "salary": "$176,250.00", "manager": nil},
		{"employee_id": "E-005", "name": "Priya Natarajan", "department": "People", "title": "Recruiter",
			"start_date": day(2022, time.January, 10), "salary": "confidential", "manager": "Sheryl Park"},
		{"employee_id": "E-006", "name": "Tomás Ortega", "department": "Engineering", "title": "Software Engineer",
			"start_date": day(2023, time.May, 22), "salary": 142000, "manager": "Ada Reyes"},
		{"employee_id": "E-007", "name": "Mei Chen", "department": "sales", "title": "Account Executive",
			"start_date": "06/01/2022", "salary": nil, "manager": "Sheryl Park"},
		{"employee_id": "E-008", "name": "Jonas Berg", "department": "Engineering", "title": "SRE",
			"start_date": day(2021, time.November, 29), "salary": int64(156000), "manager": "Rob Pike"},
		{"employee_id": "E-009", "name": "Fatima Zahra", "department": "People", "title": "People Partner",
			"start_date": day(2020, time.March, 16), "salary": "$131,000", "manager": nil},
		{"employee_id": "E-010", "name": "Liam O'Neill", "department": "Finance", "title": "Financial Analyst",
			"start_date": nil, "salary": 98000, "manager": "Omar Haddad"},
		{"employee_id": "E-011", "name": "Grace Hopper", "department": "Engineering", "title": "Principal Engineer",
			"start_date": day(2024, time.March, 18), "salary": 182000, "manager": "Rob Pike"},
		{"employee_id": "E-012", "name": "Noah Kim", "department": nil, "title": "Intern",
			"start_date": day(2024, time.June, 3), "salary": "(1,000)", "manager": "Ada Reyes"},
	}
}
