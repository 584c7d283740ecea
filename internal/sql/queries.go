package sql

import (
	"embed"
	_ "embed"
)

// Migrations holds the schema migration files, applied in filename order.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/upsert_service_type.sql
var UpsertServiceType string

//go:embed queries/delete_service_type.sql
var DeleteServiceType string

//go:embed queries/list_service_types.sql
var ListServiceTypes string

//go:embed queries/insert_run.sql
var InsertRun string

//go:embed queries/insert_run_file.sql
var InsertRunFile string

//go:embed queries/lookup_file_sha256.sql
var LookupFileSHA256 string
