// Package querytest builds a small Chinook-shaped database for tests, as
// SQLite or as DuckDB.
//
// The seeded data:
//
//	invoice  date        country   lines (track x qty)
//	1        2009-01-05  USA       AC/DC Rock x30, Miles Davis Jazz x28
//	2        2009-02-10  USA       Queen Rock x15, The Beatles Rock x4, Led Zeppelin Rock x1
//	3        2010-01-15  Brazil    Madonna Pop x10 (1.99)
//	4        2010-03-01  Atlantis  Metallica Metal x5
//
// Every price is 0.99 unless noted.
package querytest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE genres (GenreId INTEGER PRIMARY KEY, Name TEXT);
CREATE TABLE artists (ArtistId INTEGER PRIMARY KEY, Name TEXT);
CREATE TABLE albums (AlbumId INTEGER PRIMARY KEY, Title TEXT, ArtistId INTEGER);
CREATE TABLE tracks (TrackId INTEGER PRIMARY KEY, Name TEXT, AlbumId INTEGER, GenreId INTEGER, UnitPrice NUMERIC);
CREATE TABLE invoices (InvoiceId INTEGER PRIMARY KEY, InvoiceDate TEXT, BillingCountry TEXT);
CREATE TABLE invoice_items (InvoiceLineId INTEGER PRIMARY KEY, InvoiceId INTEGER, TrackId INTEGER, UnitPrice NUMERIC, Quantity INTEGER);

INSERT INTO genres VALUES (1, 'Rock'), (2, 'Jazz'), (3, 'Pop'), (4, 'Metal');
INSERT INTO artists VALUES
	(1, 'AC/DC'), (2, 'Miles Davis'), (3, 'Madonna'), (4, 'Metallica'),
	(5, 'Queen'), (6, 'The Beatles'), (7, 'Led Zeppelin');
INSERT INTO albums VALUES
	(1, 'Back in Black', 1), (2, 'Kind of Blue', 2), (3, 'Like a Prayer', 3), (4, 'Master of Puppets', 4),
	(5, 'A Night at the Opera', 5), (6, 'Abbey Road', 6), (7, 'IV', 7);
INSERT INTO tracks VALUES
	(1, 'Hells Bells', 1, 1, 0.99), (2, 'So What', 2, 2, 0.99), (3, 'Express Yourself', 3, 3, 1.99),
	(4, 'Battery', 4, 4, 0.99), (5, 'Bohemian Rhapsody', 5, 1, 0.99), (6, 'Come Together', 6, 1, 0.99),
	(7, 'Black Dog', 7, 1, 0.99);
INSERT INTO invoices VALUES
	(1, '2009-01-05 00:00:00', 'USA'), (2, '2009-02-10 00:00:00', 'USA'),
	(3, '2010-01-15 00:00:00', 'Brazil'), (4, '2010-03-01 00:00:00', 'Atlantis');
INSERT INTO invoice_items VALUES
	(1, 1, 1, 0.99, 30), (2, 1, 2, 0.99, 28),
	(3, 2, 5, 0.99, 15), (4, 2, 6, 0.99, 4), (5, 2, 7, 0.99, 1),
	(6, 3, 3, 1.99, 10),
	(7, 4, 4, 0.99, 5);
`

// Seed writes the fixture database into a temporary directory and returns
// its path.
func Seed(t testing.TB) string {
	t.Helper()
	return seed(t, "sqlite", filepath.Join(t.TempDir(), "chinook.db"))
}

// SeedDuckDB writes the same fixture as a DuckDB database. NUMERIC columns
// become DECIMAL and integer sums become HUGEINT there.
func SeedDuckDB(t testing.TB) string {
	t.Helper()
	return seed(t, "duckdb", filepath.Join(t.TempDir(), "chinook.duckdb"))
}

func seed(t testing.TB, driver, path string) string {
	t.Helper()
	db, err := sql.Open(driver, path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("seed fixture: %v", err)
	}
	return path
}
