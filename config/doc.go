// Package config loads restkit configuration from a YAML file, a .env file
// and the process environment, using viper.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("restkit", &cfg, config.WithConfigFile("restkit.yml"))
//
// Environment variables override file values. Only variables carrying the
// prefix (RESTKIT_ by default) are considered; the rest of the name maps onto
// nested keys, so RESTKIT_CLIENT_BASE_URL sets client.base_url.
package config
