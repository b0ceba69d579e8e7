package e2e

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/cinematch/internal/models"
	"github.com/xuri/excelize/v2"
)

var header = []string{"movieId", "title", "genres"}

// WriteCSV writes movies as a movies.csv catalog.
func WriteCSV(path string, movies []*models.Movie) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, m := range movies {
		if err := w.Write([]string{strconv.Itoa(m.ID + 1), m.Title, m.Genres}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes movies to the first sheet of a workbook.
func WriteXLSX(path string, movies []*models.Movie) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	row := []interface{}{header[0], header[1], header[2]}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return err
	}
	for i, m := range movies {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{m.ID + 1, m.Title, m.Genres}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// WriteSQLite writes movies to a movies table. Empty genres are stored as NULL.
func WriteSQLite(path string, movies []*models.Movie) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE movies (movieId INTEGER PRIMARY KEY, title TEXT NOT NULL, genres TEXT)`); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO movies (movieId, title, genres) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, m := range movies {
		var genres interface{}
		if m.Genres != "" {
			genres = m.Genres
		}
		if _, err := stmt.Exec(m.ID+1, m.Title, genres); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
