package postgresql

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'admin',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS services (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	featured BOOLEAN NOT NULL DEFAULT false,
	summary TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	icon_url TEXT,
	display_order INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS projects (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	featured BOOLEAN NOT NULL DEFAULT false,
	summary TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	client TEXT NOT NULL DEFAULT '',
	cover_url TEXT,
	tech TEXT[] NOT NULL DEFAULT '{}',
	gallery TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS blog_posts (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	featured BOOLEAN NOT NULL DEFAULT false,
	excerpt TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	cover_url TEXT,
	tags TEXT[] NOT NULL DEFAULT '{}',
	date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS faqs (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	question TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	featured BOOLEAN NOT NULL DEFAULT false,
	answer TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	display_order INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS team_members (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	slug TEXT UNIQUE NOT NULL,
	status TEXT NOT NULL DEFAULT 'draft',
	featured BOOLEAN NOT NULL DEFAULT false,
	role TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	photo_url TEXT,
	social_links JSONB NOT NULL DEFAULT '{}',
	display_order INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS leads (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT,
	subject TEXT,
	message TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'contact_form',
	status TEXT NOT NULL DEFAULT 'new',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS media (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	url TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	alt TEXT NOT NULL DEFAULT '',
	folder TEXT,
	mime_type TEXT NOT NULL,
	width INT,
	height INT,
	orphaned BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	created_by UUID,
	updated_by UUID
);

CREATE TABLE IF NOT EXISTS settings (
	id TEXT PRIMARY KEY,
	site_name TEXT NOT NULL DEFAULT '',
	tagline TEXT NOT NULL DEFAULT '',
	logo_url TEXT,
	contact_email TEXT NOT NULL DEFAULT '',
	contact_phone TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	social_links JSONB NOT NULL DEFAULT '{}',
	analytics JSONB NOT NULL DEFAULT '{}',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_by UUID
);
`
