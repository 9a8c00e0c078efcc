package postgres

const schema = `
CREATE EXTENSION IF NOT EXISTS pg_trgm;
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS categories (
    name         TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    keywords     TEXT[] NOT NULL DEFAULT '{}',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS articles (
    id                  UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    title               TEXT NOT NULL,
    content             TEXT NOT NULL DEFAULT '',
    summary             TEXT NOT NULL DEFAULT '',
    url                 TEXT NOT NULL UNIQUE,
    author              TEXT NOT NULL DEFAULT '',
    image_url           TEXT NOT NULL DEFAULT '',
    category            TEXT REFERENCES categories(name),
    category_confidence REAL NOT NULL DEFAULT 0,
    keywords            JSONB NOT NULL DEFAULT '[]',
    keyword_terms       TEXT NOT NULL DEFAULT '',
    entities            JSONB NOT NULL DEFAULT '{}',
    published_at        TIMESTAMPTZ,
    scraped_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_processed        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    search_vector       TSVECTOR GENERATED ALWAYS AS (
        setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
        setweight(to_tsvector('english', coalesce(keyword_terms, '') || ' ' || coalesce(summary, '')), 'B') ||
        setweight(to_tsvector('english', coalesce(content, '')), 'C')
    ) STORED
);

CREATE INDEX IF NOT EXISTS idx_articles_search_vector ON articles USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_articles_title_trgm ON articles USING GIN (title gin_trgm_ops);
CREATE INDEX IF NOT EXISTS idx_articles_category ON articles (category) WHERE is_processed;
CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles (published_at DESC NULLS LAST);
CREATE INDEX IF NOT EXISTS idx_articles_pending ON articles (created_at) WHERE NOT is_processed;

CREATE TABLE IF NOT EXISTS search_queries (
    id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    query             TEXT NOT NULL,
    detected_category TEXT,
    results_count     INTEGER NOT NULL DEFAULT 0,
    execution_time_ms INTEGER NOT NULL DEFAULT 0,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_search_queries_created_at ON search_queries (created_at);
CREATE INDEX IF NOT EXISTS idx_search_queries_query_trgm ON search_queries USING GIN (query gin_trgm_ops);
`
