// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Configuration is built in layers, later ones winning:
//
//	1. Default() values
//	2. A YAML file (BUDGET_CONFIG, or config.yaml / configs/config.yaml)
//	3. Environment variables prefixed with BUDGET_
//
// # Environment Variables
//
// Nested sections are joined with underscores:
//
//	BUDGET_SERVER_PORT=8080
//	BUDGET_LOGGING_LEVEL=debug
//	BUDGET_DATA_DIR=/srv/budget
//	BUDGET_DATA_DISTRICTS_DIR=dzielnice
//
// Explicit period-to-file lists can only be set in the YAML file:
//
//	data:
//	  income_expense:
//	    dir: doch_wyd
//	    files:
//	      - {period: "01.01.2024", file: Dochody_2024.csv, tag: income}
//	      - {period: "01.01.2024", file: Wydatki_2024.csv, tag: expense}
//
// # Testing
//
// Use Default() for a complete configuration that needs no environment.
package config
