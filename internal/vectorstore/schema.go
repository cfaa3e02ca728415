package vectorstore

import "database/sql"

// chunksDDL is shared between build configurations: the chunk metadata
// table, independent of how the ANN structure over embeddings is stored.
const chunksDDL = `
PRAGMA journal_mode=WAL;
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS chunks (
	id          INTEGER PRIMARY KEY,
	path        TEXT NOT NULL,
	start_line  INTEGER NOT NULL,
	end_line    INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	signature   TEXT NOT NULL DEFAULT '',
	breadcrumb  TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	language    TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_chunks_path ON chunks(path);

CREATE TABLE IF NOT EXISTS store_meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

func initSchema(db *sql.DB) error {
	_, err := db.Exec(chunksDDL)
	return err
}
