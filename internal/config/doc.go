// Package config provides configuration parsing for crmnav deployments.
//
// The configuration is stored in crmnav.json at the project root. Values
// from the process environment, and from an optional .env file next to the
// configuration, override the file. BASE_URL sets the base path under which
// the application is served, the same value a history-mode front end is
// built with.
//
// # Configuration File Structure
//
//	{
//	  "name": "crm",
//	  "basePath": "/crm/",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "shutdownTimeout": "10s"
//	  },
//	  "log": {"level": "info", "format": "json"},
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	  "tracing": {"enabled": true, "tracerName": "crmnav"},
//	  "manifest": {"bucket": "crm-site", "key": "routes.json", "region": "eu-west-1"}
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Base:", cfg.BasePath)
package config
