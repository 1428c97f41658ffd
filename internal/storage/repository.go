package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the full application state in SQLite. Every
// Save replaces both tables inside one transaction.
type SQLiteRepository struct {
	db            *sql.DB
	queries       *Queries
	schemaVersion uint
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer keeps the snapshot replace serialised.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("SQLite storage ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:            db,
		queries:       New(db),
		schemaVersion: version,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SchemaVersion is the migration version the database was brought up to.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.schemaVersion
}

// Load implements store.Persister. It reports false until the first Save.
func (r *SQLiteRepository) Load(ctx context.Context) (core.AppState, bool, error) {
	if _, err := r.queries.GetStateMeta(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.AppState{}, false, nil
		}
		return core.AppState{}, false, fmt.Errorf("get state meta: %w", err)
	}

	dbAccounts, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return core.AppState{}, false, fmt.Errorf("list accounts: %w", err)
	}
	dbTransactions, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return core.AppState{}, false, fmt.Errorf("list transactions: %w", err)
	}

	state := core.AppState{
		Accounts:     make([]core.Account, 0, len(dbAccounts)),
		Transactions: make([]core.Transaction, 0, len(dbTransactions)),
	}
	for _, a := range dbAccounts {
		balance, err := core.ParseAmount(a.InitialBalance)
		if err != nil {
			return core.AppState{}, false, fmt.Errorf("account %s initial balance %q: %w", a.ID, a.InitialBalance, err)
		}
		state.Accounts = append(state.Accounts, core.Account{
			ID:             a.ID,
			Name:           a.Name,
			InitialBalance: balance,
			Currency:       a.Currency,
		})
	}
	for _, t := range dbTransactions {
		amount, err := core.ParseAmount(t.Amount)
		if err != nil {
			return core.AppState{}, false, fmt.Errorf("transaction %s amount %q: %w", t.ID, t.Amount, err)
		}
		// an undated transaction is stored as ""
		var date core.Date
		if t.Date != "" {
			if date, err = core.ParseDate(t.Date); err != nil {
				return core.AppState{}, false, fmt.Errorf("transaction %s date %q: %w", t.ID, t.Date, err)
			}
		}
		state.Transactions = append(state.Transactions, core.Transaction{
			ID:          t.ID,
			Type:        core.TransactionType(t.Type),
			Amount:      amount,
			Category:    t.Category,
			Date:        date,
			Description: t.Description,
			AccountID:   t.AccountID,
		})
	}

	return state, true, nil
}

// Save implements store.Persister.
func (r *SQLiteRepository) Save(ctx context.Context, state core.AppState) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q := r.queries.WithTx(tx)
	if err = q.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if err = q.DeleteAllAccounts(ctx); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	for i, a := range state.Accounts {
		err = q.InsertAccount(ctx, Account{
			ID:             a.ID,
			Position:       int64(i),
			Name:           a.Name,
			InitialBalance: a.InitialBalance.String(),
			Currency:       a.Currency,
		})
		if err != nil {
			return fmt.Errorf("insert account %s: %w", a.ID, err)
		}
	}
	for i, t := range state.Transactions {
		err = q.InsertTransaction(ctx, Transaction{
			ID:          t.ID,
			Position:    int64(i),
			Type:        string(t.Type),
			Amount:      t.Amount.String(),
			Category:    t.Category,
			Date:        t.Date.String(),
			Description: t.Description,
			AccountID:   t.AccountID,
		})
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err = q.TouchStateMeta(ctx, time.Now()); err != nil {
		return fmt.Errorf("touch state meta: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "State saved to SQLite",
		"accounts", len(state.Accounts),
		"transactions", len(state.Transactions))
	return nil
}

// SaveInfo returns when the state was last saved and how many saves happened.
func (r *SQLiteRepository) SaveInfo(ctx context.Context) (StateMeta, error) {
	meta, err := r.queries.GetStateMeta(ctx)
	if err != nil {
		return StateMeta{}, fmt.Errorf("get state meta: %w", err)
	}
	return meta, nil
}
