//go:build sqlite_vec

package vectorstore

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// annInit creates the vec0 virtual table sized for dim-wide cosine vectors.
// The table is always current, so reindexANN is a no-op in this build.
func annInit(db *sql.DB, dim int) error {
	ddl := fmt.Sprintf(`
		CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
			chunk_id INTEGER PRIMARY KEY,
			embedding float[%d] distance_metric=cosine
		)`, dim)
	_, err := db.Exec(ddl)
	return err
}

func annUpsert(tx *sql.Tx, id int64, vector []float32) error {
	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return fmt.Errorf("serialize embedding for chunk %d: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM vec_chunks WHERE chunk_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO vec_chunks (chunk_id, embedding) VALUES (?, ?)", id, blob); err != nil {
		return fmt.Errorf("insert embedding for chunk %d: %w", id, err)
	}
	return nil
}

func annDelete(tx *sql.Tx, ids []int64) error {
	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM vec_chunks WHERE chunk_id = ?", id); err != nil {
			return err
		}
	}
	return nil
}

func annSearch(db *sql.DB, vector []float32, k int) ([]ScoredID, error) {
	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, fmt.Errorf("serialize query vector: %w", err)
	}
	rows, err := db.Query(`
		SELECT chunk_id, distance
		FROM vec_chunks
		WHERE embedding MATCH ? AND k = ?
		ORDER BY distance
	`, blob, k)
	if err != nil {
		return nil, fmt.Errorf("vec0 search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ScoredID
	for rows.Next() {
		var id int64
		var distance float64
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, err
		}
		out = append(out, ScoredID{ID: id, Score: 1 - distance})
	}
	return out, rows.Err()
}

// reindexANNImpl is a no-op: the vec0 virtual table is always current.
func reindexANNImpl(db *sql.DB) error { return nil }
