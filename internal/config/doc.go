// Package config provides configuration parsing for roko projects.
//
// The configuration is stored in roko.json at the project root.
// This package handles loading, saving, and validating configuration.
// Every field is optional; missing fields take the defaults from New.
//
// # Configuration File Structure
//
//	{
//	  "name": "app",
//	  "gen": {
//	    "include": ["."],
//	    "ignore": ["vendor"],
//	    "inputSuffix": ".roko.go",
//	    "outputSuffix": "_gen.go",
//	    "buildTag": "roko"
//	  },
//	  "dev": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "static": "web",
//	    "hotReload": true,
//	    "metrics": true,
//	    "pollInterval": "250ms"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Dev.Port)
package config
