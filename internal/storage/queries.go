package storage

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Account struct {
	ID             string
	Position       int64
	Name           string
	InitialBalance string
	Currency       string
}

type Transaction struct {
	ID          string
	Position    int64
	Type        string
	Amount      string
	Category    string
	Date        string
	Description string
	AccountID   string
}

type StateMeta struct {
	SavedAt   time.Time
	SaveCount int64
}

const listAccounts = `SELECT id, position, name, initial_balance, currency FROM accounts ORDER BY position`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(&i.ID, &i.Position, &i.Name, &i.InitialBalance, &i.Currency); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTransactions = `SELECT id, position, type, amount, category, date, description, account_id FROM transactions ORDER BY position`

func (q *Queries) ListTransactions(ctx context.Context) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(&i.ID, &i.Position, &i.Type, &i.Amount, &i.Category, &i.Date, &i.Description, &i.AccountID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllTransactions = `DELETE FROM transactions`

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllTransactions)
	return err
}

const deleteAllAccounts = `DELETE FROM accounts`

func (q *Queries) DeleteAllAccounts(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllAccounts)
	return err
}

const insertAccount = `INSERT INTO accounts (id, position, name, initial_balance, currency) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertAccount(ctx context.Context, arg Account) error {
	_, err := q.db.ExecContext(ctx, insertAccount, arg.ID, arg.Position, arg.Name, arg.InitialBalance, arg.Currency)
	return err
}

const insertTransaction = `INSERT INTO transactions (id, position, type, amount, category, date, description, account_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertTransaction(ctx context.Context, arg Transaction) error {
	_, err := q.db.ExecContext(ctx, insertTransaction,
		arg.ID, arg.Position, arg.Type, arg.Amount, arg.Category, arg.Date, arg.Description, arg.AccountID)
	return err
}

const getStateMeta = `SELECT saved_at, save_count FROM state_meta WHERE id = 1`

func (q *Queries) GetStateMeta(ctx context.Context) (StateMeta, error) {
	row := q.db.QueryRowContext(ctx, getStateMeta)
	var i StateMeta
	var savedAt string
	if err := row.Scan(&savedAt, &i.SaveCount); err != nil {
		return i, err
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return i, err
	}
	i.SavedAt = t
	return i, nil
}

const touchStateMeta = `INSERT INTO state_meta (id, saved_at, save_count) VALUES (1, ?, 1)
ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, save_count = state_meta.save_count + 1`

func (q *Queries) TouchStateMeta(ctx context.Context, savedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, touchStateMeta, savedAt.UTC().Format(time.RFC3339Nano))
	return err
}
