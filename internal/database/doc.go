// Package database opens the connections backing rank history.
//
// SQLite is the default single-user store; PostgreSQL serves deployments
// where several rankd instances share one history.
package database
