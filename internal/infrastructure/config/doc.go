// Package config handles loading and validating the smart trailer consumer
// configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with SMARTTRAILER_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// Every setting has a default matching the standard smart trailer
// deployment, so the consumer runs without a file (Load("")).
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Registry.Address)
package config
