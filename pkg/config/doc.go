// Package config loads the files tablefactory works from.
//
// # Catalogs
//
// A catalog is a YAML document listing tables, their connector options and
// their schemas. Values may reference environment variables:
//
//	tables:
//	  - name: orders
//	    options:
//	      connector: kafka
//	      topic: orders
//	      properties.bootstrap.servers: ${KAFKA_BROKERS}
//	    schema:
//	      columns:
//	        - {name: id, type: BIGINT}
//	        - {name: amount, type: DOUBLE, nullable: true}
//
// ${VAR:-fallback} substitutes fallback when VAR is unset or empty.
//
// # Settings
//
// Process settings come from an optional settings file and TABLEFACTORY_
// prefixed environment variables, e.g. TABLEFACTORY_LOG_LEVEL=debug.
package config
