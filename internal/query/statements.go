package query

// Statement is a fixed aggregate query. DuckDB is set only where the
// dialect differs from SQLite.
type Statement struct {
	Name   string
	SQLite string
	DuckDB string
}

// Text returns the statement text for the given driver.
func (s Statement) Text(driver string) string {
	if driver == DriverDuckDB && s.DuckDB != "" {
		return s.DuckDB
	}
	return s.SQLite
}

// MonthlySales totals quantities per calendar month (table view).
var MonthlySales = Statement{
	Name: "monthly_sales",
	SQLite: `
		SELECT strftime('%Y-%m', invoices.InvoiceDate) AS Month, SUM(invoice_items.Quantity) AS TotalSales
		FROM invoice_items
		JOIN invoices ON invoice_items.InvoiceId = invoices.InvoiceId
		GROUP BY Month
		ORDER BY Month`,
	DuckDB: `
		SELECT strftime(CAST(invoices.InvoiceDate AS TIMESTAMP), '%Y-%m') AS Month, SUM(invoice_items.Quantity) AS TotalSales
		FROM invoice_items
		JOIN invoices ON invoice_items.InvoiceId = invoices.InvoiceId
		GROUP BY Month
		ORDER BY Month`,
}

// MonthlySalesByYear splits month totals into year and month columns (chart).
var MonthlySalesByYear = Statement{
	Name: "monthly_sales_by_year",
	SQLite: `
		SELECT strftime('%Y', invoices.InvoiceDate) AS Year,
		       strftime('%m', invoices.InvoiceDate) AS Month,
		       SUM(invoice_items.Quantity) AS TotalSales
		FROM invoice_items
		JOIN invoices ON invoice_items.InvoiceId = invoices.InvoiceId
		GROUP BY Year, Month
		ORDER BY Year, Month`,
	DuckDB: `
		SELECT strftime(CAST(invoices.InvoiceDate AS TIMESTAMP), '%Y') AS Year,
		       strftime(CAST(invoices.InvoiceDate AS TIMESTAMP), '%m') AS Month,
		       SUM(invoice_items.Quantity) AS TotalSales
		FROM invoice_items
		JOIN invoices ON invoice_items.InvoiceId = invoices.InvoiceId
		GROUP BY Year, Month
		ORDER BY Year, Month`,
}

// RevenueByGenre ranks genres by revenue.
var RevenueByGenre = Statement{
	Name: "revenue_by_genre",
	SQLite: `
		SELECT genres.Name AS GenreName, ROUND(SUM(invoice_items.Quantity * invoice_items.UnitPrice), 2) AS Revenue
		FROM invoice_items
		JOIN tracks ON invoice_items.TrackId = tracks.TrackId
		JOIN genres ON tracks.GenreId = genres.GenreId
		GROUP BY genres.GenreId, genres.Name
		ORDER BY Revenue DESC`,
}

// TopArtistsByGenre keeps the three best-selling artists of every genre.
var TopArtistsByGenre = Statement{
	Name: "top_artists_by_genre",
	SQLite: `
		SELECT GenreName, ArtistName, TotalSales
		FROM (
			SELECT genres.Name AS GenreName, artists.Name AS ArtistName,
			       SUM(invoice_items.Quantity) AS TotalSales,
			       RANK() OVER (PARTITION BY genres.GenreId ORDER BY SUM(invoice_items.Quantity) DESC) AS SalesRank
			FROM invoice_items
			JOIN tracks ON invoice_items.TrackId = tracks.TrackId
			JOIN albums ON tracks.AlbumId = albums.AlbumId
			JOIN artists ON albums.ArtistId = artists.ArtistId
			JOIN genres ON tracks.GenreId = genres.GenreId
			GROUP BY genres.GenreId, genres.Name, artists.ArtistId, artists.Name
		) ranked
		WHERE SalesRank <= 3
		ORDER BY GenreName, SalesRank`,
}

// ArtistSalesByGenre lists every artist per genre, best first (stacked chart).
var ArtistSalesByGenre = Statement{
	Name: "artist_sales_by_genre",
	SQLite: `
		SELECT genres.Name AS GenreName, artists.Name AS ArtistName, SUM(invoice_items.Quantity) AS TotalSales
		FROM invoice_items
		JOIN tracks ON invoice_items.TrackId = tracks.TrackId
		JOIN albums ON tracks.AlbumId = albums.AlbumId
		JOIN artists ON albums.ArtistId = artists.ArtistId
		JOIN genres ON tracks.GenreId = genres.GenreId
		GROUP BY genres.Name, artists.Name
		ORDER BY genres.Name, TotalSales DESC`,
}

// TopArtistsOverall is the top five artists with quantity and revenue.
var TopArtistsOverall = Statement{
	Name: "top_artists_overall",
	SQLite: `
		SELECT artists.Name AS ArtistName, SUM(invoice_items.Quantity) AS TotalQuantity,
		       ROUND(SUM(invoice_items.UnitPrice * invoice_items.Quantity), 2) AS TotalSales
		FROM invoice_items
		JOIN tracks ON invoice_items.TrackId = tracks.TrackId
		JOIN albums ON tracks.AlbumId = albums.AlbumId
		JOIN artists ON albums.ArtistId = artists.ArtistId
		GROUP BY artists.ArtistId, artists.Name
		ORDER BY TotalSales DESC
		LIMIT 5`,
}

// TopArtistsRevenue is the top five artists by revenue (radar and pie).
var TopArtistsRevenue = Statement{
	Name: "top_artists_revenue",
	SQLite: `
		SELECT artists.Name AS ArtistName, ROUND(SUM(invoice_items.UnitPrice * invoice_items.Quantity), 2) AS Revenue
		FROM invoice_items
		JOIN tracks ON invoice_items.TrackId = tracks.TrackId
		JOIN albums ON tracks.AlbumId = albums.AlbumId
		JOIN artists ON albums.ArtistId = artists.ArtistId
		GROUP BY artists.ArtistId, artists.Name
		ORDER BY Revenue DESC
		LIMIT 5`,
}

// SalesByCountryGenre feeds the bubble map.
var SalesByCountryGenre = Statement{
	Name: "sales_by_country_genre",
	SQLite: `
		SELECT invoices.BillingCountry AS BillingCountry, genres.Name AS GenreName, SUM(invoice_items.Quantity) AS TotalSales
		FROM invoice_items
		JOIN invoices ON invoice_items.InvoiceId = invoices.InvoiceId
		JOIN tracks ON invoice_items.TrackId = tracks.TrackId
		JOIN genres ON tracks.GenreId = genres.GenreId
		GROUP BY invoices.BillingCountry, genres.GenreId, genres.Name
		ORDER BY BillingCountry, TotalSales DESC`,
}
