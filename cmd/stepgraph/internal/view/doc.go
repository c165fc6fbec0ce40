// Package view renders command output: logs, resolved values, and tables.
package view
