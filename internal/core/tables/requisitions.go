package tables

import (
	"time"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

func init() {
	registerRequisitions()
}

func registerRequisitions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "requisitions",
			Group:       GroupRecruiting,
			Label:       "Requisitions",
			Description: "Open and filled job requisitions",
		},
		KeyField: "req_id",
		Columns: []table.ColumnSpec{
			{ID: "req_id", Label: "Req", NoFilter: true},
			{ID: "title", Label: "Title"},
			{ID: "department", Label: "Department", Kind: table.KindSelect,
				Options: []string{"Engineering", "Sales", "People", "Finance"}},
			{ID: "location", Label: "Location", Kind: table.KindSelect, Accessor: locationAccessor("location")},
			{ID: "openings", Label: "Openings", Kind: table.KindRange},
			{ID: "status", Label: "Status", Kind: table.KindSelect,
				Options: []string{"Open", "On Hold", "Filled", "Closed"}},
			{ID: "opened_on", Label: "Opened", NoFilter: true},
			{ID: "hiring_manager", Label: "Hiring Manager"},
		},
		Source:      datasource.NewStatic(requisitionRecords()),
		DefaultSort: table.SortState{ColumnID: "opened_on", Direction: table.Desc},
	})
}

func requisitionRecords() []table.Record {
	return []table.Record{
		{"req_id": "REQ-101", "title": "Senior Backend Engineer", "department": "Engineering",
			"location": "austin, texas", "openings": 2, "status": "Open",
			"opened_on": day(2024, time.January, 8), "hiring_manager": "Rob Pike"},
		{"req_id": "REQ-102", "title": "Platform Engineer", "department": "Engineering",
			"location": "Remote", "openings": "1", "status": "Open",
			"opened_on": day(2024, time.February, 1), "hiring_manager": "Rob Pike"},
		{"req_id": "REQ-103", "title": "Account Executive", "department": "Sales",
			"location": "New York, NY", "openings": 3, "status": "On Hold",
			"opened_on": "2023-12-11", "hiring_manager": "Sheryl Park"},
		{"req_id": "REQ-104", "title": "Recruiting Coordinator", "department": "People",
			"location": "Denver, colorado", "openings": 1, "status": "Filled",
			"opened_on": day(2023, time.October, 23), "hiring_manager": nil},
		{"req_id": "REQ-105", "title": "Data Engineer", "department": "Engineering",
			"location": "Austin, TX", "openings": nil, "status": "Open",
			"opened_on": day(2024, time.March, 4), "hiring_manager": "Ada Reyes"},
		{"req_id": "REQ-106", "title": "Financial Analyst", "department": "Finance",
			"location": nil, "openings": 1, "status": "Closed",
			"opened_on": nil, "hiring_manager": "Omar Haddad"},
		{"req_id": "REQ-107", "title": "Engineering Manager", "department": "Engineering",
			"location": "Seattle, Washington", "openings": 1, "status": "open",
			"opened_on": day(2024, time.February, 19), "hiring_manager": "Rob Pike"},
		{"req_id": "REQ-108", "title": "Sales Development Rep", "department": "Sales",
			"location": "new york, new york", "openings": 4.0, "status": "Open",
			"opened_on": "02/26/2024", "hiring_manager": "Sheryl Park"},
	}
}
