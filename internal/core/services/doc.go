// Package services implements the driving ports: the rebuild pipeline,
// version inspection and search over the rebuilt indices.
package services
