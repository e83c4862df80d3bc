package types

import "time"

type Zone struct {
	ID            string    `db:"id"`
	ZoneNumber    int       `db:"zone_number"`
	ZoneName      string    `db:"zone_name"`
	ZoneLeader    *string   `db:"zone_leader"`
	LeaderContact *string   `db:"leader_contact"`
	CreatedAt     time.Time `db:"created_at"`
}

type AdminUser struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	FullName     string    `db:"full_name"`
	CreatedAt    time.Time `db:"created_at"`
}

// AdminSession is the identity carried by the admin session cookie.
type AdminSession struct {
	AdminID  string
	Email    string
	FullName string
}

// StoredFile is the metadata row for an uploaded file; the content lives in
// the configured blob backend under StorageKey.
type StoredFile struct {
	ID         string    `db:"id"`
	FileName   string    `db:"file_name"`
	MimeType   string    `db:"mime_type"`
	SizeBytes  int64     `db:"size_bytes"`
	StorageKey string    `db:"storage_key"`
	CreatedAt  time.Time `db:"created_at"`
}

type FileBlob struct {
	StorageKey string    `db:"storage_key"`
	Content    []byte    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}
