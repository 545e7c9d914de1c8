package sequence

import (
	"context"
	"database/sql"
)

// MySQL keeps counters in the multigame_msg_seq table so that several
// notifier processes share one sequence per game:
//
//	CREATE TABLE multigame_msg_seq (
//	  game_id INT NOT NULL PRIMARY KEY,
//	  seq     BIGINT NOT NULL
//	);
type MySQL struct {
	db *sql.DB
}

func NewMySQL(db *sql.DB) *MySQL { return &MySQL{db: db} }

// Next bumps the row for gameID and reads it back through LAST_INSERT_ID,
// which is connection scoped, so both statements share one transaction.
func (c *MySQL) Next(ctx context.Context, gameID int) (int64, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	// New rows start at LAST_INSERT_ID(1); existing rows move to seq+1.
	_, err = tx.ExecContext(ctx, `
INSERT INTO multigame_msg_seq (game_id, seq)
VALUES (?, LAST_INSERT_ID(1))
ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)
`, gameID)
	if err != nil {
		return 0, err
	}
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&seq); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return seq, nil
}

func (c *MySQL) Forget(ctx context.Context, gameID int) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM multigame_msg_seq WHERE game_id = ?`, gameID)
	return err
}
