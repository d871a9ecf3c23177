package sql

import "embed"

// Migrations holds the schema migration files applied by db.ApplyMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/list_cases.sql
var ListCases string

//go:embed queries/list_financials.sql
var ListFinancials string

//go:embed queries/list_flags.sql
var ListFlags string

//go:embed queries/list_surgeons.sql
var ListSurgeons string

//go:embed queries/list_procedures.sql
var ListProcedures string
