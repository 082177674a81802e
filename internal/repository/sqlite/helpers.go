package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"gradebook/internal/codec"
	"gradebook/internal/repository"
)

// row is one encoded entity plus its indexed key columns
type row struct {
	keys []any
	line string
}

// args returns the insert arguments: position, keys, line
func (r row) args(pos int) []any {
	args := make([]any, 0, len(r.keys)+2)
	args = append(args, pos)
	args = append(args, r.keys...)
	return append(args, r.line)
}

// loadTable decodes every stored line of table through c. Lines that fail to
// decode are reported in Skipped like a malformed text file line.
func loadTable[T any](ctx context.Context, db *sql.DB, table string, c codec.LineCodec[T]) (repository.LoadResult[T], error) {
	var result repository.LoadResult[T]

	rows, err := db.QueryContext(ctx, `SELECT pos, line FROM `+table+` ORDER BY pos`)
	if err != nil {
		return result, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pos  int
			line string
		)
		if err := rows.Scan(&pos, &line); err != nil {
			return result, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		item, err := c.Decode(line)
		if err != nil {
			result.Skipped = append(result.Skipped, fmt.Errorf("%s row %d: %w", table, pos, err))
			continue
		}
		result.Items = append(result.Items, item)
	}

	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("error iterating %s: %w", table, err)
	}
	return result, nil
}
