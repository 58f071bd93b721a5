// Package store provides the claim stores the desk can run on: SQLite for a
// single provider workstation, Postgres for a shared deployment, and a YAML
// file that can be edited by hand and watched for changes. Every store
// implements claims.Store and enforces the same lifecycle rule: a claim that
// reached a terminal status never moves again.
package store

import (
	"fmt"
	"strings"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/claims"
)

// claimColumns is the column order shared by every SQL query in this package.
const claimColumns = `id, food_name, description, claimed_quantity, image_url, status,
	delivery_method, claim_date, rating_stars, rating_review, is_reported, report_issue,
	courier_name, courier_phone`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS claims (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	food_name TEXT NOT NULL DEFAULT '',
	description TEXT,
	claimed_quantity TEXT,
	image_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	delivery_method TEXT,
	claim_date TEXT NOT NULL DEFAULT '',
	rating_stars INTEGER,
	rating_review TEXT,
	is_reported INTEGER NOT NULL DEFAULT 0,
	report_issue TEXT,
	courier_name TEXT,
	courier_phone TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS claim_status_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	claim_id TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status TEXT NOT NULL,
	changed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_claim_status_log_claim ON claim_status_log(claim_id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS claims (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	food_name TEXT NOT NULL DEFAULT '',
	description TEXT,
	claimed_quantity TEXT,
	image_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	delivery_method TEXT,
	claim_date TEXT NOT NULL DEFAULT '',
	rating_stars INTEGER,
	rating_review TEXT,
	is_reported BOOLEAN NOT NULL DEFAULT FALSE,
	report_issue TEXT,
	courier_name TEXT,
	courier_phone TEXT,
	updated_at TIMESTAMPTZ DEFAULT now()
);
CREATE TABLE IF NOT EXISTS claim_status_log (
	id BIGSERIAL PRIMARY KEY,
	claim_id TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status TEXT NOT NULL,
	changed_at TIMESTAMPTZ DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_claim_status_log_claim ON claim_status_log(claim_id);
`

// Queries are written with ? placeholders; rebind converts them for Postgres.
const (
	qListClaims = `SELECT ` + claimColumns + ` FROM claims ORDER BY seq`

	qUpsertClaim = `INSERT INTO claims (` + claimColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		food_name = excluded.food_name,
		description = excluded.description,
		claimed_quantity = excluded.claimed_quantity,
		image_url = excluded.image_url,
		status = excluded.status,
		delivery_method = excluded.delivery_method,
		claim_date = excluded.claim_date,
		rating_stars = excluded.rating_stars,
		rating_review = excluded.rating_review,
		is_reported = excluded.is_reported,
		report_issue = excluded.report_issue,
		courier_name = excluded.courier_name,
		courier_phone = excluded.courier_phone,
		updated_at = CURRENT_TIMESTAMP`

	qClaimStatus = `SELECT status FROM claims WHERE id = ?`

	qSetStatus = `UPDATE claims SET status = ?, claim_date = CASE WHEN CAST(? AS TEXT) = '' THEN claim_date ELSE ? END,
		updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	qLogStatus = `INSERT INTO claim_status_log (claim_id, from_status, to_status) VALUES (?, ?, ?)`

	qStatusLog = `SELECT from_status, to_status FROM claim_status_log WHERE claim_id = ? ORDER BY id`
)

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// rowScanner is satisfied by *sql.Row, *sql.Rows and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (claims.Record, error) {
	var (
		rec    claims.Record
		method *string
		stars  *int
		review *string
	)
	err := row.Scan(
		&rec.ID, &rec.FoodName, &rec.Description, &rec.ClaimedQuantity, &rec.ImageURL, &rec.Status,
		&method, &rec.Date, &stars, &review, &rec.IsReported, &rec.ReportIssue,
		&rec.CourierName, &rec.CourierPhone,
	)
	if err != nil {
		return claims.Record{}, err
	}
	if method != nil {
		rec.DeliveryMethod = claims.Method(claims.DeliveryMethod(*method))
	}
	if stars != nil {
		rec.Rating = &claims.Rating{Stars: *stars, Review: review}
	}
	return rec, nil
}

// claimArgs returns the column values of rec in claimColumns order.
func claimArgs(rec claims.Record) []any {
	var method *string
	if rec.DeliveryMethod != nil {
		m := string(*rec.DeliveryMethod)
		method = &m
	}
	var stars *int
	var review *string
	if rec.Rating != nil {
		s := rec.Rating.Stars
		stars = &s
		review = rec.Rating.Review
	}
	return []any{
		rec.ID, rec.FoodName, rec.Description, rec.ClaimedQuantity, rec.ImageURL, string(rec.Status),
		method, rec.Date, stars, review, rec.IsReported, rec.ReportIssue,
		rec.CourierName, rec.CourierPhone,
	}
}

func statusArgs(id string, status claims.Status, date string) []any {
	return []any{string(status), date, date, id}
}
