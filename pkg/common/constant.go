package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyIOTConfigFile string = "IOT_CONFIG_FILE"
	EnvKeyIOTAPIKey     string = "IOT_API_KEY"
	EnvKeyIOTLogDir     string = "IOT_LOG_DIR"

	EnvKeyIOTDBType string = "IOT_DB_TYPE"
	EnvKeyIOTDbPath string = "IOT_DB_PATH"

	EnvKeyIOTHttpHostPort string = "IOT_HTTP_HOST_PORT"
	EnvKeyIOTGrpcHostPort string = "IOT_GRPC_HOST_PORT"
	EnvKeyIOTStaticDir    string = "IOT_STATIC_DIR"
	EnvKeyIOTCORSOrigins  string = "IOT_CORS_ORIGINS"

	EnvKeyIOTDefaultRate  string = "IOT_DEFAULT_RATE"
	EnvKeyIOTDefaultBurst string = "IOT_DEFAULT_BURST"

	EnvKeyIOTMQTTBroker   string = "IOT_MQTT_BROKER"
	EnvKeyIOTMQTTTopic    string = "IOT_MQTT_TOPIC"
	EnvKeyIOTMQTTClientID string = "IOT_MQTT_CLIENT_ID"
	EnvKeyIOTMQTTUsername string = "IOT_MQTT_USERNAME"
	EnvKeyIOTMQTTPassword string = "IOT_MQTT_PASSWORD"

	EnvKeyIOTInfluxURL    string = "IOT_INFLUX_URL"
	EnvKeyIOTInfluxToken  string = "IOT_INFLUX_TOKEN"
	EnvKeyIOTInfluxOrg    string = "IOT_INFLUX_ORG"
	EnvKeyIOTInfluxBucket string = "IOT_INFLUX_BUCKET"

	// the query parameter names are part of the public API
	ParamAPIKey      string = "API-Key"
	ParamDeviceName  string = "device_name"
	ParamDeviceID    string = "device_id"
	ParamTemperature string = "temperature"
	ParamHumidity    string = "humidity"

	LoggerNameTelemetryCore string = "telemetry_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameMQTTIngest    string = "mqtt_ingest"
	LoggerNameInfluxSink    string = "influx_sink"
	LoggerFieldCategory     string = "category"
	LoggerCategoryDevice    string = "device"
	LoggerCategoryReading   string = "reading"
	LoggerCategoryAuth      string = "auth"
)
