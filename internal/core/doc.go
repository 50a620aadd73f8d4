// Package core provides the business logic behind the dashboard's tables.
//
// This package sits between the table engine and any UI or transport layer.
// Web handlers, the terminal viewer and tests all use it unchanged.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Table Definitions: Registered via the registry, each table has its
//     columns, key field and record source.
//   - Service: The main entry point. It opens sessions, applies events and
//     exports rows.
//   - Sessions: One table.Table per open table, keyed by a uuid and evicted
//     by the sweeper when idle.
//
// # Table Registry
//
// Tables are registered at init time using [Register]:
//
//	core.Register(TableDefinition{
//	    Info:     TableInfo{Key: "candidates", Group: "Recruiting", Label: "Candidates"},
//	    KeyField: "id",
//	    Columns: []table.ColumnSpec{
//	        {ID: "name", Label: "Name", Kind: table.KindText},
//	        {ID: "stage", Label: "Stage", Kind: table.KindSelect},
//	    },
//	    Source: datasource.NewStatic(candidateRecords),
//	})
//
// # Events
//
// Every user interaction arrives as an [Event]. [Service.Apply] routes it to
// the matching table callback and returns the new [SessionView]. Rejected
// events leave the session unchanged.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - TBL001, SES001-SES002: unknown tables and expired or excess sessions
//   - FLT001-FLT003: filter errors
//   - CFG001-CFG002: page size and scope errors
//   - SRC001-SRC003: source loads
//   - EVT001-EVT002: unsupported events and exports
package core
