package sqlinline

const QDonorSignals = `--sql 756d24ef-1905-4a0f-a8c7-a720b460c1d2
select email_opens, event_attendance
from donors
where id = $1::uuid;
`
