package sqlite

import (
	"database/sql"

	"dasha/internal/domain"
	"dasha/internal/ports"
)

// periodTx implements ports.PeriodTx
type periodTx struct {
	tx     *sql.Tx
	insert *sql.Stmt
}

// Ensure periodTx implements PeriodTx
var _ ports.PeriodTx = (*periodTx)(nil)

// DeletePeriods removes every period of a profile
func (t *periodTx) DeletePeriods(profileID string) (int, error) {
	res, err := t.tx.Exec(`DELETE FROM periods WHERE profile_id = ?`, profileID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// InsertPeriod adds one period record
func (t *periodTx) InsertPeriod(rec *domain.PeriodRecord) error {
	_, err := t.insert.Exec(rec.ProfileID, rec.Seq, rec.Path, int(rec.Level), int(rec.Lord), rec.Start, rec.End, rec.Partial)
	return err
}

// Commit commits the transaction
func (t *periodTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *periodTx) Rollback() error {
	return t.tx.Rollback()
}
