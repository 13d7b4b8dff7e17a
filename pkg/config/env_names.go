package config

const EnvPrefix = "BABYSTEPS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "BABYSTEPS_APP_ENV"
	EnvPort   = "BABYSTEPS_APP_PORT"

	EnvDBDSN  = "BABYSTEPS_DB_DSN"
	EnvDBHost = "BABYSTEPS_DB_HOST"
	EnvDBUser = "BABYSTEPS_DB_USER"
	EnvDBName = "BABYSTEPS_DB_NAME"

	EnvRedisURL = "BABYSTEPS_REDIS_URL"

	EnvEstimatorPolicy          = "BABYSTEPS_ESTIMATOR_POLICY"
	EnvEstimatorHistoryDays     = "BABYSTEPS_ESTIMATOR_HISTORY_DAYS"
	EnvEstimatorPlanHorizonDays = "BABYSTEPS_ESTIMATOR_PLAN_HORIZON_DAYS"
)

// Estimator policy names accepted by BABYSTEPS_ESTIMATOR_POLICY.
const (
	PolicyUsageAverage = "usage_average"
	PolicyPlannedScan  = "planned_scan"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
