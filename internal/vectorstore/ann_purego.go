//go:build purego || !sqlite_vec

package vectorstore

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// annInit creates a plain blob table for embeddings. There is no separate
// ANN structure to keep fresh, so reindexANN is a no-op in this build too:
// the brute-force scan in annSearch always reads current data.
func annInit(db *sql.DB, dim int) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS vectors (
			chunk_id  INTEGER PRIMARY KEY,
			embedding BLOB NOT NULL
		)`)
	return err
}

func serializeVector(v []float32) []byte {
	blob := make([]byte, len(v)*4)
	for i, x := range v {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(x))
	}
	return blob
}

func deserializeVector(blob []byte) []float32 {
	v := make([]float32, len(blob)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return v
}

func annUpsert(tx *sql.Tx, id int64, vector []float32) error {
	_, err := tx.Exec(
		"INSERT INTO vectors (chunk_id, embedding) VALUES (?, ?) ON CONFLICT(chunk_id) DO UPDATE SET embedding = excluded.embedding",
		id, serializeVector(vector),
	)
	return err
}

func annDelete(tx *sql.Tx, ids []int64) error {
	for _, id := range ids {
		if _, err := tx.Exec("DELETE FROM vectors WHERE chunk_id = ?", id); err != nil {
			return err
		}
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func annSearch(db *sql.DB, vector []float32, k int) ([]ScoredID, error) {
	rows, err := db.Query("SELECT chunk_id, embedding FROM vectors")
	if err != nil {
		return nil, fmt.Errorf("scan vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var candidates []ScoredID
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		v := deserializeVector(blob)
		if len(v) != len(vector) {
			continue
		}
		candidates = append(candidates, ScoredID{ID: id, Score: cosineSimilarity(vector, v)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
	if k > 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates, nil
}

func reindexANNImpl(db *sql.DB) error { return nil }
