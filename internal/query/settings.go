package query

const (
	CreateSettingsTable = `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	UpsertSetting = `
	INSERT INTO settings (key, value)
	VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value;
	`

	SelectSetting = `
	SELECT value
	FROM settings
	WHERE key = ?;
	`

	SelectAllSettings = `
	SELECT key, value
	FROM settings;
	`
)
