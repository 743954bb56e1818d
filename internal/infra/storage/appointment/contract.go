package appointment

import "github.com/m04kA/SMC-OfficeScheduler/pkg/dbmetrics"

// DBExecutor *sql.DB, *dbmetrics.DB или транзакция
type DBExecutor = dbmetrics.DBExecutor
