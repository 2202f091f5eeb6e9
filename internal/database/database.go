package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"nmcatalog/pkg/models"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Database mirrors the merged catalog, the generation runs that produced it
// and the audio audit results into SQLite.
type Database struct {
	conn   *sql.DB
	logger logrus.FieldLogger

	upsertTrackStmt *sql.Stmt
	upsertAudioStmt *sql.Stmt
	getRunStmt      *sql.Stmt
}

// NewDatabase opens (or creates) a SQLite database at the provided path and
// ensures all tables exist. Caller should Close() it when finished.
func NewDatabase(dbPath string, logger logrus.FieldLogger) (*Database, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?cache=shared&mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer; the generator never runs queries concurrently.
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			logger.WithError(err).WithField("pragma", pragma).Warn("Failed to set pragma")
		}
	}

	db := &Database{
		conn:   conn,
		logger: logger,
	}

	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.prepareStatements(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.WithField("db_path", dbPath).Debug("Database initialized")
	return db, nil
}

// createTables is idempotent and safe to call on every start.
func (db *Database) createTables() error {
	runsTable := `
	CREATE TABLE IF NOT EXISTS generation_runs (
		id TEXT PRIMARY KEY,
		seed TEXT NOT NULL,
		start_index INTEGER NOT NULL,
		end_index INTEGER NOT NULL,
		existing_count INTEGER NOT NULL,
		new_count INTEGER NOT NULL,
		output_path TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);`

	// run_id is the run that generated the track; NULL for tracks that were
	// already in the catalog when mirroring started. synced_run is the last
	// run that saw the track in the catalog.
	tracksTable := `
	CREATE TABLE IF NOT EXISTS tracks (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		music_prompt TEXT NOT NULL,
		video_title TEXT NOT NULL,
		caption_kr TEXT NOT NULL,
		caption_en TEXT NOT NULL,
		theme TEXT NOT NULL,
		color_preset TEXT NOT NULL,
		run_id TEXT REFERENCES generation_runs(id),
		synced_run TEXT NOT NULL
	);`

	audioTable := `
	CREATE TABLE IF NOT EXISTS audio_files (
		track_id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		file_path TEXT,
		format TEXT,
		duration INTEGER DEFAULT 0,
		file_size INTEGER DEFAULT 0,
		title TEXT,
		artist TEXT,
		checked_at DATETIME NOT NULL
	);`

	indices := []string{
		"CREATE INDEX IF NOT EXISTS idx_tracks_position ON tracks(position);",
		"CREATE INDEX IF NOT EXISTS idx_tracks_theme ON tracks(theme);",
		"CREATE INDEX IF NOT EXISTS idx_audio_files_status ON audio_files(status);",
	}

	for _, table := range []string{runsTable, tracksTable, audioTable} {
		if _, err := db.conn.Exec(table); err != nil {
			return err
		}
	}
	for _, index := range indices {
		if _, err := db.conn.Exec(index); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) prepareStatements() error {
	var err error

	db.upsertTrackStmt, err = db.conn.Prepare(`
		INSERT INTO tracks (id, position, title, music_prompt, video_title, caption_kr, caption_en, theme, color_preset, run_id, synced_run)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			title = excluded.title,
			music_prompt = excluded.music_prompt,
			video_title = excluded.video_title,
			caption_kr = excluded.caption_kr,
			caption_en = excluded.caption_en,
			theme = excluded.theme,
			color_preset = excluded.color_preset,
			run_id = COALESCE(excluded.run_id, tracks.run_id),
			synced_run = excluded.synced_run`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert track statement: %w", err)
	}

	db.upsertAudioStmt, err = db.conn.Prepare(`
		INSERT INTO audio_files (track_id, status, file_path, format, duration, file_size, title, artist, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			status = excluded.status,
			file_path = excluded.file_path,
			format = excluded.format,
			duration = excluded.duration,
			file_size = excluded.file_size,
			title = excluded.title,
			artist = excluded.artist,
			checked_at = excluded.checked_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert audio statement: %w", err)
	}

	db.getRunStmt, err = db.conn.Prepare(`
		SELECT id, seed, start_index, end_index, existing_count, new_count, output_path, created_at
		FROM generation_runs WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare get run statement: %w", err)
	}

	return nil
}

// SyncCatalog records run and makes the tracks table equal to catalog, in one
// transaction. Tracks whose id is in generated are attributed to run; tracks
// no longer in the catalog are removed.
func (db *Database) SyncCatalog(run models.GenerationRun, catalog []models.Track, generated map[string]bool) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO generation_runs (id, seed, start_index, end_index, existing_count, new_count, output_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, strconv.FormatUint(run.Seed, 10), run.StartIndex, run.EndIndex,
		run.ExistingCount, run.NewCount, run.OutputPath, run.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert generation run: %w", err)
	}

	stmt := tx.Stmt(db.upsertTrackStmt)
	for position, t := range catalog {
		var runID any
		if generated[t.ID] {
			runID = run.ID
		}
		_, err := stmt.Exec(t.ID, position, t.Title, t.MusicPrompt, t.VideoTitle,
			t.CaptionKR, t.CaptionEN, t.Theme, t.ColorPreset, runID, run.ID)
		if err != nil {
			db.logger.WithError(err).WithField("track_id", t.ID).Error("Failed to upsert track")
			return fmt.Errorf("failed to upsert track %s: %w", t.ID, err)
		}
	}

	res, err := tx.Exec("DELETE FROM tracks WHERE synced_run <> ?", run.ID)
	if err != nil {
		return fmt.Errorf("failed to remove stale tracks: %w", err)
	}
	if removed, _ := res.RowsAffected(); removed > 0 {
		db.logger.WithField("removed", removed).Info("Removed tracks no longer in the catalog")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog sync: %w", err)
	}
	return nil
}

// GetAllTracks returns the mirrored catalog in catalog order.
func (db *Database) GetAllTracks() ([]models.Track, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, music_prompt, video_title, caption_kr, caption_en, theme, color_preset
		FROM tracks
		ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackRows(rows)
}

// GetTracksByTheme returns the tracks of one theme in catalog order.
func (db *Database) GetTracksByTheme(theme string) ([]models.Track, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, music_prompt, video_title, caption_kr, caption_en, theme, color_preset
		FROM tracks
		WHERE theme = ?
		ORDER BY position`, theme)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackRows(rows)
}

// GetTracksByRun returns the tracks generated by a run.
func (db *Database) GetTracksByRun(runID string) ([]models.Track, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, music_prompt, video_title, caption_kr, caption_en, theme, color_preset
		FROM tracks
		WHERE run_id = ?
		ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrackRows(rows)
}

// ThemeCounts returns the number of tracks per theme.
func (db *Database) ThemeCounts() (map[string]int, error) {
	rows, err := db.conn.Query("SELECT theme, COUNT(*) FROM tracks GROUP BY theme")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var theme string
		var n int
		if err := rows.Scan(&theme, &n); err != nil {
			return nil, err
		}
		counts[theme] = n
	}
	return counts, rows.Err()
}

// GetRun returns a generation run by its ID.
func (db *Database) GetRun(id string) (*models.GenerationRun, error) {
	var run models.GenerationRun
	var seed string
	err := db.getRunStmt.QueryRow(id).Scan(&run.ID, &seed, &run.StartIndex, &run.EndIndex,
		&run.ExistingCount, &run.NewCount, &run.OutputPath, &run.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("generation run %s not found", id)
		}
		return nil, err
	}
	run.Seed, err = strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid seed stored for run %s: %w", id, err)
	}
	return &run, nil
}

// SaveAudioFiles upserts audit results in one transaction.
func (db *Database) SaveAudioFiles(files []models.AudioFile, checkedAt time.Time) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := tx.Stmt(db.upsertAudioStmt)
	for _, f := range files {
		_, err := stmt.Exec(f.TrackID, f.Status, f.FilePath, f.Format, f.Duration, f.FileSize,
			f.Title, f.Artist, checkedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to save audio status for %s: %w", f.TrackID, err)
		}
	}
	return tx.Commit()
}

// GetAudioFiles returns audit results filtered by status; an empty status
// returns every row.
func (db *Database) GetAudioFiles(status string) ([]models.AudioFile, error) {
	query := `
		SELECT track_id, status, COALESCE(file_path, ''), COALESCE(format, ''), duration, file_size,
			COALESCE(title, ''), COALESCE(artist, '')
		FROM audio_files`
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY track_id"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.AudioFile
	for rows.Next() {
		var f models.AudioFile
		if err := rows.Scan(&f.TrackID, &f.Status, &f.FilePath, &f.Format, &f.Duration, &f.FileSize, &f.Title, &f.Artist); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Close releases prepared statements and the connection.
func (db *Database) Close() error {
	for _, stmt := range []*sql.Stmt{db.upsertTrackStmt, db.upsertAudioStmt, db.getRunStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return db.conn.Close()
}

func scanTrackRows(rows *sql.Rows) ([]models.Track, error) {
	var tracks []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.ID, &t.Title, &t.MusicPrompt, &t.VideoTitle,
			&t.CaptionKR, &t.CaptionEN, &t.Theme, &t.ColorPreset); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
