package sqlinline

const QSelectIntegrationToken = `--sql 7c8da951-10b0-48e9-81fd-54ff2ea0e700
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql a859340c-fd3d-44e8-9846-0a8796ee687b
insert into integration_tokens (provider, token, properties)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb))
on conflict (provider) do update set
    token = excluded.token,
    properties = excluded.properties,
    updated_at = now();
`
