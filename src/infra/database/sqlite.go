package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/contre95/soundbridge/src/music"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore persists tracks seen while browsing so lookups and the status
// page survive restarts and cache evictions.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (and creates if needed) the track store.
func NewSqliteStore(path string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tracks (
			id INTEGER PRIMARY KEY,
			uri TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			artist_id INTEGER,
			artist_name TEXT,
			album TEXT,
			genre TEXT,
			duration INTEGER,
			date TEXT,
			last_modified INTEGER,
			permalink_url TEXT,
			artwork_url TEXT,
			avatar_url TEXT,
			preview BOOLEAN DEFAULT FALSE,
			added_date TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_name);
		CREATE INDEX IF NOT EXISTS idx_tracks_added ON tracks(added_date);
	`)
	return err
}

// SaveTrack upserts one track.
func (s *SqliteStore) SaveTrack(ctx context.Context, track *music.Track) error {
	return upsertTrack(ctx, s.db, track)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsertTrack(ctx context.Context, db execer, track *music.Track) error {
	var artistID int64
	artistName := ""
	if track.Artist != nil {
		artistID = track.Artist.ID
		artistName = track.Artist.Name
	}
	album := ""
	if track.Album != nil {
		album = track.Album.Name
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO tracks (
			id, uri, title, artist_id, artist_name, album, genre, duration,
			date, last_modified, permalink_url, artwork_url, avatar_url,
			preview, added_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uri = excluded.uri,
			title = excluded.title,
			artist_id = excluded.artist_id,
			artist_name = excluded.artist_name,
			album = excluded.album,
			genre = excluded.genre,
			duration = excluded.duration,
			date = excluded.date,
			last_modified = excluded.last_modified,
			permalink_url = excluded.permalink_url,
			artwork_url = excluded.artwork_url,
			avatar_url = excluded.avatar_url,
			preview = excluded.preview
	`,
		track.ID, track.URI, track.Title, artistID, artistName, album,
		track.Genre, track.Duration, track.Date, track.LastModified,
		track.PermalinkURL, track.ArtworkURL, track.AvatarURL, track.Preview,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SaveTracks upserts a batch inside one transaction.
func (s *SqliteStore) SaveTracks(ctx context.Context, tracks []*music.Track) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, track := range tracks {
		if err := upsertTrack(ctx, tx, track); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetTrack returns a stored track or nil when unknown.
func (s *SqliteStore) GetTrack(ctx context.Context, id int64) (*music.Track, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, uri, title, artist_id, artist_name, album, genre, duration,
			date, last_modified, permalink_url, artwork_url, avatar_url,
			preview, added_date
		FROM tracks WHERE id = ?
	`, id)
	track, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return track, err
}

// RecentTracks lists the most recently seen tracks.
func (s *SqliteStore) RecentTracks(ctx context.Context, limit int) ([]*music.Track, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, uri, title, artist_id, artist_name, album, genre, duration,
			date, last_modified, permalink_url, artwork_url, avatar_url,
			preview, added_date
		FROM tracks ORDER BY added_date DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []*music.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// TrackCount returns how many tracks the store holds.
func (s *SqliteStore) TrackCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tracks`).Scan(&count)
	return count, err
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (*music.Track, error) {
	var (
		track        music.Track
		artistID     int64
		artistName   string
		album        string
		addedDateStr string
	)
	err := row.Scan(
		&track.ID, &track.URI, &track.Title, &artistID, &artistName, &album,
		&track.Genre, &track.Duration, &track.Date, &track.LastModified,
		&track.PermalinkURL, &track.ArtworkURL, &track.AvatarURL,
		&track.Preview, &addedDateStr,
	)
	if err != nil {
		return nil, err
	}
	track.AddedDate, _ = time.Parse(time.RFC3339, addedDateStr)
	track.Artist = &music.Artist{ID: artistID, Name: artistName}
	track.Album = &music.Album{Name: album}
	return &track, nil
}
