package tables

import (
	"time"

	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/datasource"
	"github.com/JonMunkholm/talentdesk/internal/table"
)

func init() {
	registerInterviews()
}

func registerInterviews() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:         "interviews",
			Group:       GroupRecruiting,
			Label:       "Interviews",
			Description: "Scheduled and completed interview rounds",
		},
		KeyField: "interview_id",
		Columns: []table.ColumnSpec{
			{ID: "candidate", Label: "Candidate"},
			{ID: "requisition", Label: "Req", Kind: table.KindSelect},
			{ID: "round", Label: "Round", Kind: table.KindSelect,
				Options: []string{"Phone Screen", "Technical", "Onsite", "Final"}},
			{ID: "scheduled_at", Label: "Scheduled", NoFilter: true},
			{ID: "interviewer", Label: "Interviewer"},
			{ID: "score", Label: "Score", Kind: table.KindRange},
		},
		Source:      datasource.NewStatic(interviewRecords()),
		DefaultSort: table.SortState{ColumnID: "scheduled_at", Direction: table.Asc},
		PageSize:    5,
	})
}

func at(year int, month time.Month, d, hour, minute int) time.Time {
	return time.Date(year, month, d, hour, minute, 0, 0, time.UTC)
}

func interviewRecords() []table.Record {
	return []table.Record{
		{"interview_id": "INT-1", "candidate": "Ada Lovelace", "requisition": "REQ-105", "round": "Technical",
			"scheduled_at": at(2024, time.February, 22, 15, 0), "interviewer": "Ada Reyes", "score": 4.5},
		{"interview_id": "INT-2", "candidate": "Ada Lovelace", "requisition": "REQ-105", "round": "Onsite",
			"scheduled_at": at(2024, time.March, 6, 17, 30), "interviewer": "Rob Pike", "score": nil},
		{"interview_id": "INT-3", "candidate": "Grace Hopper", "requisition": "REQ-101", "round": "Final",
			"scheduled_at": "2024-02-14T18:00:00Z", "interviewer": "Rob Pike", "score": 5},
		{"interview_id": "INT-4", "candidate": "Alan Turing", "requisition": "REQ-102", "round": "Phone Screen",
			"scheduled_at": at(2024, time.March, 8, 16, 0), "interviewer": "Priya Natarajan", "score": "3"},
		{"interview_id": "INT-5", "candidate": "Barbara Liskov", "requisition": "REQ-101", "round": "Technical",
			"scheduled_at": at(2024, time.February, 27, 19, 0), "interviewer": "Jonas Berg", "score": 4},
		{"interview_id": "INT-6", "candidate": "Dennis Ritchie", "requisition": "REQ-107", "round": "phone screen",
			"scheduled_at": nil, "interviewer": nil, "score": nil},
		{"interview_id": "INT-7", "candidate": "Katherine Johnson", "requisition": "REQ-105", "round": "Final",
			"scheduled_at": at(2024, time.February, 29, 14, 0), "interviewer": "Ada Reyes", "score": 4.8},
		{"interview_id": "INT-8", "candidate": "Radia Perlman", "requisition": "REQ-102", "round": "Onsite",
			"scheduled_at": at(2024, time.March, 5, 21, 0), "interviewer": "Jonas Berg", "score": 4.9},
		{"interview_id": "INT-9", "candidate": "Ken Thompson", "requisition": "REQ-101", "round": "Technical",
			"scheduled_at": at(2024, time.March, 2, 16, 30), "interviewer": "Tomás Ortega", "score": 2},
		{"interview_id": "INT-10", "candidate": "Edsger Dijkstra", "requisition": "REQ-103", "round": "Phone Screen",
			"scheduled_at": "03/12/2024", "interviewer": "Priya Natarajan", "score": "n/a"},
	}
}
