// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/regulation-server/internal/query"
	"github.com/pdiddy/regulation-server/internal/record"
)

var schema = []string{
	`DROP TABLE IF EXISTS region_regulations`,
	`DROP TABLE IF EXISTS regions`,
	`DROP TABLE IF EXISTS developer_guidance`,
	`DROP TABLE IF EXISTS articles`,
	`DROP TABLE IF EXISTS regulations`,
	`CREATE TABLE regulations (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		name TEXT,
		region TEXT,
		risk_category TEXT,
		summary TEXT,
		payload TEXT NOT NULL
	)`,
	`CREATE TABLE articles (
		regulation_id TEXT NOT NULL REFERENCES regulations(id),
		position INTEGER NOT NULL,
		article TEXT,
		title TEXT,
		summary TEXT,
		notes TEXT,
		PRIMARY KEY (regulation_id, position)
	)`,
	`CREATE TABLE developer_guidance (
		regulation_id TEXT NOT NULL REFERENCES regulations(id),
		position INTEGER NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (regulation_id, position)
	)`,
	`CREATE TABLE regions (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		name TEXT,
		notes TEXT
	)`,
	`CREATE TABLE region_regulations (
		region_id TEXT NOT NULL REFERENCES regions(id),
		position INTEGER NOT NULL,
		regulation_id TEXT NOT NULL,
		PRIMARY KEY (region_id, position)
	)`,
	`CREATE INDEX idx_region_regulations_regulation ON region_regulations(regulation_id)`,
}

// SQLite writes snap to the database at path, replacing any tables a
// previous export created. The whole export runs in one transaction.
func SQLite(ctx context.Context, path string, snap query.Snapshot) error {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	if err := insertRegulations(ctx, tx, snap); err != nil {
		return err
	}
	if err := insertRegions(ctx, tx, snap); err != nil {
		return err
	}

	return tx.Commit()
}

func insertRegulations(ctx context.Context, tx *sql.Tx, snap query.Snapshot) error {
	regStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO regulations (id, source_id, name, region, risk_category, summary, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing regulation insert: %w", err)
	}
	defer regStmt.Close()

	artStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (regulation_id, position, article, title, summary, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing article insert: %w", err)
	}
	defer artStmt.Close()

	guideStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO developer_guidance (regulation_id, position, text) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing guidance insert: %w", err)
	}
	defer guideStmt.Close()

	for _, reg := range snap.Regulations {
		id := record.Normalize(reg.ID)
		payload, err := json.Marshal(reg)
		if err != nil {
			return fmt.Errorf("encoding regulation %s: %w", id, err)
		}
		if _, err := regStmt.ExecContext(ctx,
			id, reg.ID, reg.Name, reg.Region, reg.RiskCategory, reg.Summary, string(payload),
		); err != nil {
			return fmt.Errorf("inserting regulation %s: %w", id, err)
		}
		for i, a := range reg.Articles {
			if _, err := artStmt.ExecContext(ctx, id, i, a.Number, a.Title, a.Summary, a.Notes); err != nil {
				return fmt.Errorf("inserting article %d of %s: %w", i, id, err)
			}
		}
		for i, g := range reg.DeveloperGuidance {
			if _, err := guideStmt.ExecContext(ctx, id, i, g); err != nil {
				return fmt.Errorf("inserting guidance %d of %s: %w", i, id, err)
			}
		}
	}
	return nil
}

func insertRegions(ctx context.Context, tx *sql.Tx, snap query.Snapshot) error {
	regionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO regions (id, source_id, name, notes) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing region insert: %w", err)
	}
	defer regionStmt.Close()

	linkStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO region_regulations (region_id, position, regulation_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing region link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, r := range snap.Regions {
		id := record.Normalize(r.ID)
		if _, err := regionStmt.ExecContext(ctx, id, r.ID, r.Name, r.Notes); err != nil {
			return fmt.Errorf("inserting region %s: %w", id, err)
		}
		for i, reg := range r.Regulations {
			if _, err := linkStmt.ExecContext(ctx, id, i, record.Normalize(reg.ID)); err != nil {
				return fmt.Errorf("linking %s to region %s: %w", reg.ID, id, err)
			}
		}
	}
	return nil
}
