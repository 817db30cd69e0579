package sqlinline

const QDonationHistory = `--sql f16883a7-dcfe-4e4c-b6e8-90406aec0dd4
select given_at, amount::float8, coalesce(fund, '')
from donations
where donor_id = $1::uuid
order by given_at asc, id asc;
`

const QDonorPoolHistory = `--sql 689b57d6-6ce5-4f89-8a1a-c289ab9147a4
with pool as (
    select distinct donor_id
    from donations
    order by donor_id
    limit $1::int
)
select g.donor_id::text, d.email_opens, d.event_attendance, g.given_at, g.amount::float8, coalesce(g.fund, '')
from donations g
join pool p on p.donor_id = g.donor_id
left join donors d on d.id = g.donor_id
order by g.donor_id, g.given_at asc, g.id asc;
`
