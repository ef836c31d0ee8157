package db

// schemas holds the idempotent DDL for each driver, one statement per entry
var schemas = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS brands (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS garment_types (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS measurement_ranges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	brand_id INTEGER NOT NULL REFERENCES brands(id),
	garment_id INTEGER NOT NULL REFERENCES garment_types(id),
	region TEXT NOT NULL CHECK (region IN ('US', 'UK', 'EU')),
	size_label TEXT NOT NULL,
	measurement_type TEXT NOT NULL CHECK (measurement_type IN ('bust', 'waist', 'hips')),
	min_value NUMERIC NOT NULL,
	max_value NUMERIC NOT NULL,
	unit TEXT NOT NULL CHECK (unit IN ('inches', 'cm')),
	CHECK (min_value <= max_value)
)`,
		`CREATE INDEX IF NOT EXISTS idx_ranges_lookup
	ON measurement_ranges (brand_id, garment_id, region, measurement_type, unit)`,
		`CREATE TABLE IF NOT EXISTS size_history (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	brand TEXT NOT NULL,
	garment TEXT NOT NULL,
	measurement_type TEXT NOT NULL,
	unit TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	us_size TEXT NOT NULL,
	uk_size TEXT NOT NULL,
	eu_size TEXT NOT NULL,
	source TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON size_history (user_id, created_at)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS brands (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS garment_types (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS measurement_ranges (
	id BIGSERIAL PRIMARY KEY,
	brand_id BIGINT NOT NULL REFERENCES brands(id),
	garment_id BIGINT NOT NULL REFERENCES garment_types(id),
	region TEXT NOT NULL CHECK (region IN ('US', 'UK', 'EU')),
	size_label TEXT NOT NULL,
	measurement_type TEXT NOT NULL CHECK (measurement_type IN ('bust', 'waist', 'hips')),
	min_value NUMERIC(10, 4) NOT NULL,
	max_value NUMERIC(10, 4) NOT NULL,
	unit TEXT NOT NULL CHECK (unit IN ('inches', 'cm')),
	CHECK (min_value <= max_value)
)`,
		`CREATE INDEX IF NOT EXISTS idx_ranges_lookup
	ON measurement_ranges (brand_id, garment_id, region, measurement_type, unit)`,
		`CREATE TABLE IF NOT EXISTS size_history (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	brand TEXT NOT NULL,
	garment TEXT NOT NULL,
	measurement_type TEXT NOT NULL,
	unit TEXT NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	us_size TEXT NOT NULL,
	uk_size TEXT NOT NULL,
	eu_size TEXT NOT NULL,
	source TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON size_history (user_id, created_at)`,
	},
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS brands (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS garment_types (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS measurement_ranges (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	brand_id BIGINT NOT NULL,
	garment_id BIGINT NOT NULL,
	region VARCHAR(2) NOT NULL,
	size_label VARCHAR(64) NOT NULL,
	measurement_type VARCHAR(16) NOT NULL,
	min_value DECIMAL(10, 4) NOT NULL,
	max_value DECIMAL(10, 4) NOT NULL,
	unit VARCHAR(8) NOT NULL,
	INDEX idx_ranges_lookup (brand_id, garment_id, region, measurement_type, unit),
	FOREIGN KEY (brand_id) REFERENCES brands(id),
	FOREIGN KEY (garment_id) REFERENCES garment_types(id),
	CHECK (min_value <= max_value)
)`,
		`CREATE TABLE IF NOT EXISTS size_history (
	id CHAR(36) PRIMARY KEY,
	user_id VARCHAR(255) NOT NULL,
	brand VARCHAR(255) NOT NULL,
	garment VARCHAR(255) NOT NULL,
	measurement_type VARCHAR(16) NOT NULL,
	unit VARCHAR(8) NOT NULL,
	value DOUBLE PRECISION NOT NULL,
	us_size VARCHAR(64) NOT NULL,
	uk_size VARCHAR(64) NOT NULL,
	eu_size VARCHAR(64) NOT NULL,
	source VARCHAR(16) NOT NULL,
	created_at BIGINT NOT NULL,
	INDEX idx_history_user (user_id, created_at)
)`,
	},
}
