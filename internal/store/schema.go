package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scenarios (
    name                 TEXT PRIMARY KEY,
    preset               TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS overrides (
    scenario             TEXT NOT NULL REFERENCES scenarios(name) ON DELETE CASCADE,
    category             TEXT NOT NULL,
    period               INTEGER NOT NULL,
    amount               REAL NOT NULL,
    PRIMARY KEY (scenario, category, period)
);

CREATE TABLE IF NOT EXISTS recommendation_runs (
    run_id               TEXT PRIMARY KEY,
    scenario             TEXT NOT NULL,
    goal                 TEXT NOT NULL,
    source               TEXT NOT NULL,
    fallback_reason      TEXT NOT NULL DEFAULT '',
    recommendations      INTEGER NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_scenario ON recommendation_runs(scenario, created_at);
`
