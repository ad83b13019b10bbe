package sqlite

// Schema DDL. SQLite is a query cache rebuilt from records.jsonl on every
// Attach, so the schema carries no migrations.
const createRecords = `CREATE TABLE records (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);`

// schemaDDL lists all CREATE statements in execution order.
var schemaDDL = []string{
	createRecords,
}
