package db

// Timestamps are unix seconds in both dialects.

var schemaSQLite = []string{
	`CREATE TABLE IF NOT EXISTS admins (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'admin',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS divisions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  image TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  division_id TEXT NOT NULL REFERENCES divisions(id) ON DELETE CASCADE,
  position TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_division ON employees(division_id)`,
	`CREATE TABLE IF NOT EXISTS nilai (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  nama TEXT NOT NULL,
  nisn TEXT NOT NULL,
  materi_uji_id INTEGER NOT NULL,
  nama_pelajaran TEXT NOT NULL DEFAULT '',
  pelajaran_id INTEGER NOT NULL DEFAULT 0,
  skor REAL NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_nilai_materi_uji ON nilai(materi_uji_id)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
  jti TEXT PRIMARY KEY,
  expires_at INTEGER NOT NULL
)`,
}

var schemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS admins (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'admin',
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS divisions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS employees (
  id TEXT PRIMARY KEY,
  image TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  division_id TEXT NOT NULL REFERENCES divisions(id) ON DELETE CASCADE,
  position TEXT NOT NULL,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_employees_division ON employees(division_id)`,
	`CREATE TABLE IF NOT EXISTS nilai (
  id BIGSERIAL PRIMARY KEY,
  nama TEXT NOT NULL,
  nisn TEXT NOT NULL,
  materi_uji_id INTEGER NOT NULL,
  nama_pelajaran TEXT NOT NULL DEFAULT '',
  pelajaran_id INTEGER NOT NULL DEFAULT 0,
  skor DOUBLE PRECISION NOT NULL DEFAULT 0
)`,
	`CREATE INDEX IF NOT EXISTS idx_nilai_materi_uji ON nilai(materi_uji_id)`,
	`CREATE TABLE IF NOT EXISTS revoked_tokens (
  jti TEXT PRIMARY KEY,
  expires_at BIGINT NOT NULL
)`,
}
