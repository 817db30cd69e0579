package sqlinline

// QEnsureSchema creates the tables the service reads. Run by cmd/report -migrate.
const QEnsureSchema = `--sql b9e51d39-30ee-4610-b9a9-beab307e5197
create table if not exists donors (
    id uuid primary key default gen_random_uuid(),
    display_name text not null default '',
    email_opens int check (email_opens >= 0),
    event_attendance int check (event_attendance >= 0),
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
create table if not exists donations (
    id uuid primary key default gen_random_uuid(),
    donor_id uuid not null references donors(id) on delete cascade,
    amount numeric(14, 2) not null check (amount >= 0),
    fund text,
    given_at timestamptz not null,
    created_at timestamptz not null default now()
);
create index if not exists donations_donor_given_idx on donations (donor_id, given_at);
create table if not exists integration_tokens (
    id uuid primary key default gen_random_uuid(),
    provider text not null unique,
    token text not null,
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
