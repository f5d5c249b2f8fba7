// Package validation checks budget input files and export targets on disk.
package validation
