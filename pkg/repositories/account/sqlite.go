package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fadedpez/cryptoufos/pkg/entities"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLite table schema
const createAccountsTableSQL = `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		wallet TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		nfts INTEGER NOT NULL DEFAULT 0,
		ufos INTEGER NOT NULL DEFAULT 0,
		empty_power_cell INTEGER NOT NULL DEFAULT 0,
		full_power_cell INTEGER NOT NULL DEFAULT 0,
		broken_power_cell INTEGER NOT NULL DEFAULT 0,
		ice INTEGER NOT NULL DEFAULT 0,
		water INTEGER NOT NULL DEFAULT 0,
		halite INTEGER NOT NULL DEFAULT 0,
		claimable_full_power_cell INTEGER NOT NULL DEFAULT 0,
		power_cell_slots TEXT NOT NULL,  -- JSON array of slot records
		scavenger TEXT NOT NULL,  -- JSON building record
		water_filter TEXT NOT NULL,  -- JSON building record
		workshop TEXT NOT NULL,  -- JSON building record
		daily_claimed_at TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_ufos ON accounts(ufos)`

// SQLiteRepository implements the Repository interface using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	// Ensure the directory exists
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(createAccountsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating accounts table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// GetByWallet retrieves an account by wallet address
func (r *SQLiteRepository) GetByWallet(ctx context.Context, wallet string) (*entities.Account, error) {
	query := `
		SELECT id, wallet, name, nfts, ufos,
			empty_power_cell, full_power_cell, broken_power_cell,
			ice, water, halite, claimable_full_power_cell,
			power_cell_slots, scavenger, water_filter, workshop,
			daily_claimed_at, updated_at
		FROM accounts WHERE wallet = ?`

	row := r.db.QueryRowContext(ctx, query, wallet)

	var (
		account        entities.Account
		slotsJSON      []byte
		scavengerJSON  []byte
		filterJSON     []byte
		workshopJSON   []byte
		dailyClaimedAt sql.NullTime
	)

	err := row.Scan(
		&account.ID, &account.Wallet, &account.Name, &account.NFTs, &account.UFOS,
		&account.EmptyPowerCell, &account.FullPowerCell, &account.BrokenPowerCell,
		&account.Ice, &account.Water, &account.Halite, &account.ClaimableFullPowerCell,
		&slotsJSON, &scavengerJSON, &filterJSON, &workshopJSON,
		&dailyClaimedAt, &account.LastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	if dailyClaimedAt.Valid {
		claimed := dailyClaimedAt.Time
		account.DailyClaimedAt = &claimed
	}

	if err := decodeAccountJSON(&account, slotsJSON, scavengerJSON, filterJSON, workshopJSON); err != nil {
		return nil, err
	}

	return &account, nil
}

// Save creates or updates an account
func (r *SQLiteRepository) Save(ctx context.Context, account *entities.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.LastUpdated = time.Now()

	slotsJSON, scavengerJSON, filterJSON, workshopJSON, err := encodeAccountJSON(account)
	if err != nil {
		return err
	}

	var dailyClaimedAt interface{}
	if account.DailyClaimedAt != nil {
		dailyClaimedAt = *account.DailyClaimedAt
	}

	// Use UPSERT syntax for SQLite
	query := `
		INSERT INTO accounts (
			id, wallet, name, nfts, ufos,
			empty_power_cell, full_power_cell, broken_power_cell,
			ice, water, halite, claimable_full_power_cell,
			power_cell_slots, scavenger, water_filter, workshop,
			daily_claimed_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(wallet)
		DO UPDATE SET
			name = excluded.name,
			nfts = excluded.nfts,
			ufos = excluded.ufos,
			empty_power_cell = excluded.empty_power_cell,
			full_power_cell = excluded.full_power_cell,
			broken_power_cell = excluded.broken_power_cell,
			ice = excluded.ice,
			water = excluded.water,
			halite = excluded.halite,
			claimable_full_power_cell = excluded.claimable_full_power_cell,
			power_cell_slots = excluded.power_cell_slots,
			scavenger = excluded.scavenger,
			water_filter = excluded.water_filter,
			workshop = excluded.workshop,
			daily_claimed_at = excluded.daily_claimed_at,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		account.ID, account.Wallet, account.Name, account.NFTs, account.UFOS,
		account.EmptyPowerCell, account.FullPowerCell, account.BrokenPowerCell,
		account.Ice, account.Water, account.Halite, account.ClaimableFullPowerCell,
		slotsJSON, scavengerJSON, filterJSON, workshopJSON,
		dailyClaimedAt, account.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("error saving account: %w", err)
	}
	return nil
}

// TransferUFOS moves UFOS between two accounts in a single transaction.
// The sender's balance check is part of the debiting UPDATE, so a
// concurrent spend can never drive the balance negative.
func (r *SQLiteRepository) TransferUFOS(ctx context.Context, fromWallet, toWallet string, amount int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET ufos = ufos - ?, updated_at = CURRENT_TIMESTAMP
		 WHERE wallet = ? AND ufos >= ?`,
		amount, fromWallet, amount)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either the sender is unknown or the balance fell short.
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM accounts WHERE wallet = ?`, fromWallet).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrAccountNotFound
		}
		return ErrInsufficientFunds
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE accounts SET ufos = ufos + ?, updated_at = CURRENT_TIMESTAMP
		 WHERE wallet = ?`,
		amount, toWallet)
	if err != nil {
		return err
	}
	rows, err = res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAccountNotFound
	}

	return tx.Commit()
}

// TopByUFOS returns up to limit accounts ordered by UFOS descending
func (r *SQLiteRepository) TopByUFOS(ctx context.Context, limit int) ([]*entities.Account, error) {
	query := `
		SELECT id, wallet, name, nfts, ufos,
			empty_power_cell, full_power_cell, broken_power_cell,
			ice, water, halite, claimable_full_power_cell,
			power_cell_slots, scavenger, water_filter, workshop,
			daily_claimed_at, updated_at
		FROM accounts ORDER BY ufos DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying leaderboard: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Account, 0, limit)
	for rows.Next() {
		var (
			account        entities.Account
			slotsJSON      []byte
			scavengerJSON  []byte
			filterJSON     []byte
			workshopJSON   []byte
			dailyClaimedAt sql.NullTime
		)
		err := rows.Scan(
			&account.ID, &account.Wallet, &account.Name, &account.NFTs, &account.UFOS,
			&account.EmptyPowerCell, &account.FullPowerCell, &account.BrokenPowerCell,
			&account.Ice, &account.Water, &account.Halite, &account.ClaimableFullPowerCell,
			&slotsJSON, &scavengerJSON, &filterJSON, &workshopJSON,
			&dailyClaimedAt, &account.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning account: %w", err)
		}
		if dailyClaimedAt.Valid {
			claimed := dailyClaimedAt.Time
			account.DailyClaimedAt = &claimed
		}
		if err := decodeAccountJSON(&account, slotsJSON, scavengerJSON, filterJSON, workshopJSON); err != nil {
			return nil, err
		}
		result = append(result, &account)
	}

	return result, rows.Err()
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func encodeAccountJSON(account *entities.Account) (slots, scavenger, filter, workshop []byte, err error) {
	slotRecords := make([]slotRecord, 0, len(account.PowerCellSlots))
	for _, s := range account.PowerCellSlots {
		slotRecords = append(slotRecords, slotToRecord(s))
	}
	if slots, err = json.Marshal(slotRecords); err != nil {
		return nil, nil, nil, nil, err
	}
	if scavenger, err = json.Marshal(buildingToRecord(account.Scavenger)); err != nil {
		return nil, nil, nil, nil, err
	}
	if filter, err = json.Marshal(buildingToRecord(account.WaterFilter)); err != nil {
		return nil, nil, nil, nil, err
	}
	if workshop, err = json.Marshal(buildingToRecord(account.Workshop)); err != nil {
		return nil, nil, nil, nil, err
	}
	return slots, scavenger, filter, workshop, nil
}

func decodeAccountJSON(account *entities.Account, slots, scavenger, filter, workshop []byte) error {
	var slotRecords []slotRecord
	if err := json.Unmarshal(slots, &slotRecords); err != nil {
		return fmt.Errorf("error decoding slots: %w", err)
	}
	account.PowerCellSlots = make([]entities.ChargerSlot, 0, len(slotRecords))
	for _, rec := range slotRecords {
		account.PowerCellSlots = append(account.PowerCellSlots, slotFromRecord(rec))
	}

	var rec buildingRecord
	if err := json.Unmarshal(scavenger, &rec); err != nil {
		return fmt.Errorf("error decoding scavenger: %w", err)
	}
	account.Scavenger = buildingFromRecord(entities.BuildingScavenger, rec)

	if err := json.Unmarshal(filter, &rec); err != nil {
		return fmt.Errorf("error decoding water filter: %w", err)
	}
	account.WaterFilter = buildingFromRecord(entities.BuildingWaterFilter, rec)

	if err := json.Unmarshal(workshop, &rec); err != nil {
		return fmt.Errorf("error decoding workshop: %w", err)
	}
	account.Workshop = buildingFromRecord(entities.BuildingWorkshop, rec)

	return nil
}
