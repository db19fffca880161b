package catalog

import "github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
